package ports

import (
	"context"

	"github.com/ewilliams-labs/aestheticify/internal/core/domain"
)

// CatalogSearcher resolves a free-text query to the best matching track.
// It returns nil on no match, on any error, and when ctx is already done.
type CatalogSearcher interface {
	ResolveTrack(ctx context.Context, query string) *domain.TrackRef
}

// TrackLookup fetches display metadata for a catalog track id.
type TrackLookup interface {
	LookupTrack(ctx context.Context, trackID string) (domain.TrackInfo, error)
}
