package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/ewilliams-labs/aestheticify/internal/core/domain"
	"github.com/ewilliams-labs/aestheticify/internal/core/ports"
)

var trackURLPattern = regexp.MustCompile(`track/([a-zA-Z0-9]+)`)

// TrackIDFromURL extracts the track id from a public track link.
func TrackIDFromURL(link string) (string, bool) {
	m := trackURLPattern.FindStringSubmatch(link)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// LookupTrack fetches name, first artist and album art for trackID. Rate
// limits and server errors are retried.
func (c *Client) LookupTrack(ctx context.Context, trackID string) (domain.TrackInfo, error) {
	trackID = strings.TrimSpace(trackID)
	if trackID == "" {
		return domain.TrackInfo{}, fmt.Errorf("spotify adapter: %w: empty track id", domain.ErrInvalidArgument)
	}

	trackURL := fmt.Sprintf("%s/tracks/%s", c.baseURL, url.PathEscape(trackID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, trackURL, nil)
	if err != nil {
		return domain.TrackInfo{}, fmt.Errorf("spotify adapter: failed to create track request: %w", err)
	}
	if err := c.authorize(ctx, req); err != nil {
		return domain.TrackInfo{}, err
	}

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return domain.TrackInfo{}, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.TrackInfo{}, fmt.Errorf("spotify adapter: track %s: %w", trackID, domain.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return domain.TrackInfo{}, c.rejected(resp.StatusCode)
	}

	var st spotifyTrack
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return domain.TrackInfo{}, fmt.Errorf("spotify adapter: track decode error: %w: %v", ports.ErrTransport, err)
	}
	return mapTrackInfo(st), nil
}
