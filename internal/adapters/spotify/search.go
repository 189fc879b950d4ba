package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ewilliams-labs/aestheticify/internal/core/domain"
	"github.com/ewilliams-labs/aestheticify/internal/core/ports"
)

// ResolveTrack searches for query and returns the first match, or nil when
// nothing matched, the search failed, or ctx was already done. Failures are
// logged and never returned.
func (c *Client) ResolveTrack(ctx context.Context, query string) *domain.TrackRef {
	if ctx.Err() != nil {
		return nil
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	track, err := c.searchFirst(ctx, query)
	if err != nil {
		if ctx.Err() == nil {
			c.logger.Warn().Err(err).Str("query", query).Msg("spotify adapter: track search failed")
		}
		return nil
	}
	if track == nil || track.ExternalURLs.Spotify == "" {
		c.logger.Debug().Str("query", query).Msg("spotify adapter: no track found")
		return nil
	}

	ref := mapTrackRef(*track)
	ref.Confidence = queryConfidence(query, *track)
	return &ref
}

// searchFirst issues a single search request limited to one result.
func (c *Client) searchFirst(ctx context.Context, query string) (*spotifyTrack, error) {
	searchURL, err := url.Parse(fmt.Sprintf("%s/search", c.baseURL))
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: invalid search url: %w", err)
	}
	params := searchURL.Query()
	params.Set("q", query)
	params.Set("type", "track")
	params.Set("limit", "1")
	searchURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: failed to create search request: %w", err)
	}
	if err := c.authorize(ctx, req); err != nil {
		return nil, err
	}

	// #nosec G107 -- URL constructed from configured Spotify API base URL
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: search request failed: %w: %v", ports.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.rejected(resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("spotify adapter: search decode error: %w: %v", ports.ErrTransport, err)
	}
	if len(body.Tracks.Items) == 0 {
		return nil, nil
	}
	return &body.Tracks.Items[0], nil
}
