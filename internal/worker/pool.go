// Package worker provides background processing for artifact enrichment and
// ambient audio analysis.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/aestheticify/internal/core/domain"
	"github.com/ewilliams-labs/aestheticify/internal/core/ports"
	"github.com/ewilliams-labs/aestheticify/internal/core/services"
)

const defaultJobTimeout = 15 * time.Second

var _ services.EnrichmentQueue = (*Pool)(nil)

// Job represents a track metadata lookup for a saved artifact.
type Job struct {
	ArtifactID string
	TrackURL   string
}

// TrackInfoWriter persists looked-up track metadata on an artifact.
type TrackInfoWriter interface {
	UpdateTrackInfo(ctx context.Context, id string, info domain.TrackInfo) error
}

// TrackIDParser extracts a catalog track id from a public track link.
type TrackIDParser func(link string) (string, bool)

// Recorder observes job outcomes: updated, skipped, failed or dropped.
type Recorder interface {
	EnrichmentFinished(result string)
}

// Pool manages background workers for async jobs.
type Pool struct {
	store      TrackInfoWriter
	lookup     ports.TrackLookup
	parseID    TrackIDParser
	logger     zerolog.Logger
	metrics    Recorder
	jobTimeout time.Duration

	jobs   chan Job
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// Option configures a Pool.
type Option func(*Pool)

// WithLogger sets the pool logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Pool) { p.logger = logger }
}

// WithRecorder sets the job outcome recorder.
func WithRecorder(r Recorder) Option {
	return func(p *Pool) { p.metrics = r }
}

// WithJobTimeout bounds each lookup and write.
func WithJobTimeout(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.jobTimeout = d
		}
	}
}

// NewPool creates a worker pool with the given queue size.
func NewPool(store TrackInfoWriter, lookup ports.TrackLookup, parseID TrackIDParser, queueSize int, opts ...Option) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	p := &Pool{
		store:      store,
		lookup:     lookup,
		parseID:    parseID,
		logger:     zerolog.Nop(),
		jobTimeout: defaultJobTimeout,
		jobs:       make(chan Job, queueSize),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the worker goroutines.
func (p *Pool) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.processJob(job)
			}
		}()
	}
}

// Stop closes the queue and waits for queued jobs to finish.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}

// Submit queues a job without blocking. It reports false when the queue is
// full or the pool has stopped.
func (p *Pool) Submit(job Job) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.record("dropped")
		return false
	}
	select {
	case p.jobs <- job:
		return true
	default:
		p.logger.Warn().Str("artifact_id", job.ArtifactID).Msg("worker: queue full, dropping job")
		p.record("dropped")
		return false
	}
}

// Enqueue submits an enrichment job for a saved artifact.
func (p *Pool) Enqueue(artifactID, trackURL string) bool {
	return p.Submit(Job{ArtifactID: artifactID, TrackURL: trackURL})
}

func (p *Pool) processJob(job Job) {
	log := p.logger.With().Str("artifact_id", job.ArtifactID).Logger()

	trackID, ok := p.parseID(job.TrackURL)
	if !ok {
		log.Warn().Str("track_url", job.TrackURL).Msg("worker: no track id in link, skipping")
		p.record("skipped")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.jobTimeout)
	defer cancel()

	info, err := p.lookup.LookupTrack(ctx, trackID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Warn().Str("track_id", trackID).Msg("worker: track not found, skipping")
			p.record("skipped")
			return
		}
		log.Warn().Err(err).Str("track_id", trackID).Msg("worker: track lookup failed")
		p.record("failed")
		return
	}

	if err := p.store.UpdateTrackInfo(ctx, job.ArtifactID, info); err != nil {
		log.Error().Err(err).Msg("worker: failed to update track info")
		p.record("failed")
		return
	}
	log.Debug().Str("track_id", trackID).Msg("worker: track info updated")
	p.record("updated")
}

func (p *Pool) record(result string) {
	if p.metrics != nil {
		p.metrics.EnrichmentFinished(result)
	}
}
