// Package metrics exposes the service's Prometheus counters.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ewilliams-labs/aestheticify/internal/core/services"
)

const namespace = "aestheticify"

var _ services.Recorder = (*Metrics)(nil)

// Metrics records generation and sharing events. Each instance owns its
// registry so tests never collide on global registration.
type Metrics struct {
	registry *prometheus.Registry

	generations      *prometheus.CounterVec
	upstreamFailures *prometheus.CounterVec
	artifactsSaved   prometheus.Counter
	links            *prometheus.CounterVec
	claims           *prometheus.CounterVec
	enrichments      *prometheus.CounterVec
}

// New registers the counters plus the Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		generations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generations_total",
				Help:      "Generations that reached a terminal state.",
			},
			[]string{"theme", "outcome"},
		),
		upstreamFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_failures_total",
				Help:      "Collaborator calls that failed and were replaced by a fallback.",
			},
			[]string{"collaborator"},
		),
		artifactsSaved: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "artifacts_saved_total",
				Help:      "Artifacts persisted by auto-save.",
			},
		),
		links: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "links_total",
				Help:      "Link requests by result.",
			},
			[]string{"result"},
		),
		claims: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "claims_total",
				Help:      "Creator claim requests by result.",
			},
			[]string{"result"},
		),
		enrichments: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "worker",
				Name:      "enrichments_total",
				Help:      "Track metadata jobs by result.",
			},
			[]string{"result"},
		),
	}
}

func (m *Metrics) GenerationFinished(theme, outcome string) {
	m.generations.WithLabelValues(theme, outcome).Inc()
}

func (m *Metrics) UpstreamFailure(collaborator string) {
	m.upstreamFailures.WithLabelValues(collaborator).Inc()
}

func (m *Metrics) ArtifactSaved() {
	m.artifactsSaved.Inc()
}

func (m *Metrics) LinkRecorded(result string) {
	m.links.WithLabelValues(result).Inc()
}

func (m *Metrics) ClaimRecorded(result string) {
	m.claims.WithLabelValues(result).Inc()
}

// EnrichmentFinished counts a worker job outcome (updated, skipped, failed, dropped).
func (m *Metrics) EnrichmentFinished(result string) {
	m.enrichments.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
