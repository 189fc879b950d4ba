package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/aestheticify/internal/core/domain"
	"github.com/ewilliams-labs/aestheticify/internal/core/ports"
)

// SharingService persists artifacts and manages links and creator claims.
// "Not authenticated" and "already done" are ordinary outcomes; only store
// failures are returned as errors.
type SharingService struct {
	store    ports.ArtifactStore
	markers  ports.SessionMarkers
	identity ports.IdentityProvider
	queue    EnrichmentQueue
	metrics  Recorder
	logger   zerolog.Logger
	now      func() time.Time
}

// SharingOption configures a SharingService.
type SharingOption func(*SharingService)

// WithEnrichment enqueues a metadata job for every saved artifact with a track.
func WithEnrichment(queue EnrichmentQueue) SharingOption {
	return func(s *SharingService) { s.queue = queue }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) SharingOption {
	return func(s *SharingService) {
		if r != nil {
			s.metrics = r
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger zerolog.Logger) SharingOption {
	return func(s *SharingService) { s.logger = logger }
}

func NewSharingService(store ports.ArtifactStore, markers ports.SessionMarkers, identity ports.IdentityProvider, opts ...SharingOption) *SharingService {
	s := &SharingService{
		store:    store,
		markers:  markers,
		identity: identity,
		metrics:  nopRecorder{},
		logger:   zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AutoSave stores a new anonymous artifact and returns its id. When ctx
// carries a session id, a session marker is recorded so the session's user
// can later claim the artifact. Callers guard against saving the same result
// twice.
func (s *SharingService) AutoSave(ctx context.Context, entry domain.JournalEntry, vibe domain.Vibe, trackURL string) (string, error) {
	art := domain.VibeArtifact{
		Vibe:      vibe,
		Journal:   entry,
		TrackURL:  trackURL,
		Title:     entry.Title,
		CreatedAt: s.now(),
	}
	id, err := s.store.CreateArtifact(ctx, art)
	if err != nil {
		s.logger.Error().Err(err).Msg("service: failed to save artifact")
		return "", fmt.Errorf("service: failed to save artifact: %w", err)
	}
	s.metrics.ArtifactSaved()

	if sid := domain.SessionIDFromContext(ctx); sid != "" && s.markers != nil {
		if err := s.markers.Mark(ctx, sid, id); err != nil {
			s.logger.Warn().Err(err).Str("artifact_id", id).Msg("service: failed to record session marker")
		}
	}
	if trackURL != "" && s.queue != nil {
		if !s.queue.Enqueue(id, trackURL) {
			s.logger.Warn().Str("artifact_id", id).Msg("service: enrichment queue full, skipping track metadata")
		}
	}
	return id, nil
}

// LinkToCurrentUser adds artifactID to the caller's collection. It is
// idempotent: an existing link returns the id unchanged. It does not set the
// artifact's creator.
func (s *SharingService) LinkToCurrentUser(ctx context.Context, artifactID string) (string, error) {
	id, ok := s.identity.CurrentIdentity(ctx)
	if !ok {
		return "", domain.ErrNotAuthenticated
	}

	exists, err := s.store.LinkExists(ctx, id.UID, artifactID)
	if err != nil {
		return "", fmt.Errorf("service: failed to check link: %w", err)
	}
	if exists {
		s.metrics.LinkRecorded("existing")
		return artifactID, nil
	}

	if _, err := s.store.GetArtifact(ctx, artifactID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", err
		}
		return "", fmt.Errorf("service: failed to load artifact: %w", err)
	}

	link := domain.UserVibeLink{UID: id.UID, VibeID: artifactID, CreatedAt: s.now()}
	if err := s.store.PutLink(ctx, link); err != nil {
		s.logger.Error().Err(err).Str("artifact_id", artifactID).Msg("service: failed to save link")
		return "", fmt.Errorf("service: failed to save link: %w", err)
	}
	s.metrics.LinkRecorded("created")
	return artifactID, nil
}

// ClaimCreator attaches the caller as creator of artifactID. It returns false
// when unauthenticated, when a creator is already set, or when the caller can
// show neither a link to the artifact nor a session marker from its creation.
func (s *SharingService) ClaimCreator(ctx context.Context, artifactID string) (bool, error) {
	id, ok := s.identity.CurrentIdentity(ctx)
	if !ok {
		s.metrics.ClaimRecorded("unauthenticated")
		return false, nil
	}

	art, err := s.store.GetArtifact(ctx, artifactID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, err
		}
		return false, fmt.Errorf("service: failed to load artifact: %w", err)
	}
	if art.Creator != nil {
		s.metrics.ClaimRecorded("already_claimed")
		return false, nil
	}

	related, err := s.related(ctx, id.UID, artifactID)
	if err != nil {
		return false, err
	}
	if !related {
		s.metrics.ClaimRecorded("unrelated")
		return false, nil
	}

	claimed, err := s.store.SetCreatorIfAbsent(ctx, artifactID, id.AsCreator())
	if err != nil {
		return false, fmt.Errorf("service: failed to set creator: %w", err)
	}
	if claimed {
		s.metrics.ClaimRecorded("claimed")
	} else {
		s.metrics.ClaimRecorded("already_claimed")
	}
	return claimed, nil
}

func (s *SharingService) related(ctx context.Context, uid, artifactID string) (bool, error) {
	linked, err := s.store.LinkExists(ctx, uid, artifactID)
	if err != nil {
		return false, fmt.Errorf("service: failed to check link: %w", err)
	}
	if linked {
		return true, nil
	}

	sid := domain.SessionIDFromContext(ctx)
	if sid == "" || s.markers == nil {
		return false, nil
	}
	marked, err := s.markers.Has(ctx, sid, artifactID)
	if err != nil {
		return false, fmt.Errorf("service: failed to check session marker: %w", err)
	}
	return marked, nil
}

// IsSavedByCurrentUser reports whether the caller has linked artifactID.
// It is false, not an error, when unauthenticated.
func (s *SharingService) IsSavedByCurrentUser(ctx context.Context, artifactID string) (bool, error) {
	id, ok := s.identity.CurrentIdentity(ctx)
	if !ok {
		return false, nil
	}
	exists, err := s.store.LinkExists(ctx, id.UID, artifactID)
	if err != nil {
		return false, fmt.Errorf("service: failed to check link: %w", err)
	}
	return exists, nil
}

// GetArtifact returns a stored artifact.
func (s *SharingService) GetArtifact(ctx context.Context, artifactID string) (domain.VibeArtifact, error) {
	art, err := s.store.GetArtifact(ctx, artifactID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.VibeArtifact{}, err
		}
		return domain.VibeArtifact{}, fmt.Errorf("service: failed to load artifact: %w", err)
	}
	return art, nil
}

// ListMine returns the caller's linked artifacts, most recently linked first.
// Links to artifacts that no longer exist are skipped.
func (s *SharingService) ListMine(ctx context.Context) ([]domain.VibeArtifact, error) {
	id, ok := s.identity.CurrentIdentity(ctx)
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}

	links, err := s.store.ListLinks(ctx, id.UID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list links: %w", err)
	}

	out := make([]domain.VibeArtifact, 0, len(links))
	for _, link := range links {
		art, err := s.store.GetArtifact(ctx, link.VibeID)
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn().Str("artifact_id", link.VibeID).Str("uid", id.UID).Msg("service: linked artifact missing")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("service: failed to load artifact %s: %w", link.VibeID, err)
		}
		out = append(out, art)
	}
	return out, nil
}
