package ports

import (
	"context"

	"github.com/ewilliams-labs/aestheticify/internal/core/domain"
)

// ArtifactStore is the document store behind artifacts and per-identity links.
type ArtifactStore interface {
	// CreateArtifact writes a new artifact and returns its generated id.
	CreateArtifact(ctx context.Context, a domain.VibeArtifact) (string, error)
	GetArtifact(ctx context.Context, id string) (domain.VibeArtifact, error)
	// SetCreatorIfAbsent attaches creator only when none is set; it reports
	// whether the write happened.
	SetCreatorIfAbsent(ctx context.Context, id string, creator domain.Creator) (bool, error)
	UpdateTrackInfo(ctx context.Context, id string, info domain.TrackInfo) error

	// PutLink creates the link if it does not exist; an existing link is left untouched.
	PutLink(ctx context.Context, link domain.UserVibeLink) error
	LinkExists(ctx context.Context, uid, vibeID string) (bool, error)
	// ListLinks returns links for uid ordered by creation time, newest first.
	ListLinks(ctx context.Context, uid string) ([]domain.UserVibeLink, error)
}

// SessionMarkers records which artifacts a client session created.
type SessionMarkers interface {
	Mark(ctx context.Context, sessionID, artifactID string) error
	Has(ctx context.Context, sessionID, artifactID string) (bool, error)
}
