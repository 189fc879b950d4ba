package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.GenerationFinished("cozy", "complete")
	m.GenerationFinished("cozy", "complete")
	m.GenerationFinished("glitch", "cancelled")
	m.UpstreamFailure("textgen")
	m.ArtifactSaved()
	m.LinkRecorded("created")
	m.LinkRecorded("existing")
	m.ClaimRecorded("claimed")
	m.EnrichmentFinished("updated")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.generations.WithLabelValues("cozy", "complete")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.generations.WithLabelValues("glitch", "cancelled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.upstreamFailures.WithLabelValues("textgen")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.artifactsSaved))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.links.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.links.WithLabelValues("existing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.claims.WithLabelValues("claimed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.enrichments.WithLabelValues("updated")))
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.ArtifactSaved()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.artifactsSaved))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.artifactsSaved))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.GenerationFinished("dreamy", "complete")

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `aestheticify_generations_total{outcome="complete",theme="dreamy"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
