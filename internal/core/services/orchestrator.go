package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/aestheticify/internal/core/domain"
	"github.com/ewilliams-labs/aestheticify/internal/core/journal"
	"github.com/ewilliams-labs/aestheticify/internal/core/ports"
	"github.com/ewilliams-labs/aestheticify/internal/core/vibes"
)

// State is a generation pipeline stage.
type State string

const (
	StateIdle          State = "idle"
	StateSampling      State = "sampling"
	StateAwaitingText  State = "awaiting_text"
	StateAwaitingTrack State = "awaiting_track"
	StateComplete      State = "complete"
	StateCancelled     State = "cancelled"
)

// Terminal reports whether no further transitions can follow s.
func (s State) Terminal() bool {
	return s == StateComplete || s == StateCancelled
}

// Snapshot is the externally visible state of one generation.
type Snapshot struct {
	Generation uint64               `json:"generation"`
	State      State                `json:"state"`
	Loading    bool                 `json:"loading"`
	Theme      domain.VibeTheme     `json:"theme"`
	Vibe       *domain.Vibe         `json:"vibe,omitempty"`
	Journal    *domain.JournalEntry `json:"journal,omitempty"`
	Track      *domain.TrackRef     `json:"track,omitempty"`
	ArtifactID string               `json:"artifactId,omitempty"`
}

// VibeSampler draws vibes and picks uniformly from candidate lists.
type VibeSampler interface {
	Sample(theme domain.VibeTheme) (domain.Vibe, error)
	Pick(values []string) string
}

// Emit is called with the snapshot for every transition. Returning false
// means the run was superseded; the orchestrator stops as cancelled.
type Emit func(Snapshot) bool

// Orchestrator runs the sample → text → track pipeline for one request.
type Orchestrator struct {
	sampler VibeSampler
	text    ports.TextGenerator
	catalog ports.CatalogSearcher
	metrics Recorder
	logger  zerolog.Logger
}

// NewOrchestrator constructs an Orchestrator. A nil recorder disables metrics.
func NewOrchestrator(sampler VibeSampler, text ports.TextGenerator, catalog ports.CatalogSearcher, metrics Recorder, logger zerolog.Logger) *Orchestrator {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &Orchestrator{
		sampler: sampler,
		text:    text,
		catalog: catalog,
		metrics: metrics,
		logger:  logger,
	}
}

// Generate runs one generation for theme. It never fails: text generation
// errors fall back to the default journal entry, a missing track leaves
// Track nil, and cancellation (ctx done or emit returning false) ends the run
// in StateCancelled. The returned snapshot is the terminal one.
func (o *Orchestrator) Generate(ctx context.Context, theme domain.VibeTheme, emit Emit) Snapshot {
	if emit == nil {
		emit = func(Snapshot) bool { return true }
	}
	log := o.logger.With().Str("theme", string(theme)).Logger()

	snap := Snapshot{State: StateSampling, Loading: true, Theme: theme}
	if !o.advance(ctx, snap, emit) {
		return o.cancelled(snap, log)
	}

	vibe, err := o.sampler.Sample(theme)
	if err != nil {
		log.Warn().Err(err).Msg("service: sampling failed, using random theme")
		if vibe, err = o.sampler.Sample(domain.ThemeRandom); err != nil {
			log.Error().Err(err).Msg("service: random sampling failed, using fallback vibe")
			vibe = vibes.Fallback()
		}
	}
	snap.Vibe = &vibe
	snap.State = StateAwaitingText
	if !o.advance(ctx, snap, emit) {
		return o.cancelled(snap, log)
	}

	entry := domain.DefaultJournalEntry()
	raw, err := o.text.Generate(ctx, journal.BuildPrompt(vibe))
	switch {
	case errors.Is(err, ports.ErrCanceled) || ctx.Err() != nil:
		return o.cancelled(snap, log)
	case err != nil:
		o.metrics.UpstreamFailure("textgen")
		log.Warn().Err(err).Msg("service: text generation failed, using fallback entry")
	default:
		entry = journal.ParseWithVibe(raw, vibe, o.sampler)
	}
	snap.Journal = &entry
	snap.State = StateAwaitingTrack
	if !o.advance(ctx, snap, emit) {
		return o.cancelled(snap, log)
	}

	track := o.catalog.ResolveTrack(ctx, entry.SongQuery)
	if ctx.Err() != nil {
		return o.cancelled(snap, log)
	}
	if track == nil {
		log.Debug().Str("song_query", entry.SongQuery).Msg("service: no track resolved")
	}
	withTrack := vibe.WithTrack(track)
	snap.Vibe = &withTrack
	snap.Track = track
	snap.State = StateComplete
	snap.Loading = false
	if !o.advance(ctx, snap, emit) {
		return o.cancelled(snap, log)
	}

	o.metrics.GenerationFinished(string(theme), string(StateComplete))
	log.Debug().Msg("service: generation complete")
	return snap
}

func (o *Orchestrator) advance(ctx context.Context, snap Snapshot, emit Emit) bool {
	if ctx.Err() != nil {
		return false
	}
	o.logger.Debug().Str("state", string(snap.State)).Msg("service: generation transition")
	return emit(snap)
}

func (o *Orchestrator) cancelled(snap Snapshot, log zerolog.Logger) Snapshot {
	snap.State = StateCancelled
	snap.Loading = false
	o.metrics.GenerationFinished(string(snap.Theme), string(StateCancelled))
	log.Debug().Msg("service: generation cancelled")
	return snap
}
