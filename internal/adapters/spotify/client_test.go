package spotify_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/ewilliams-labs/aestheticify/internal/adapters/spotify"
	"github.com/ewilliams-labs/aestheticify/internal/core/domain"
	"github.com/ewilliams-labs/aestheticify/internal/core/ports"
)

const trackJSON = `{
	"id": "4iV5W9uYEdYUVa79Axb7Rh",
	"name": "Midnight City",
	"external_urls": {"spotify": "https://open.spotify.com/track/4iV5W9uYEdYUVa79Axb7Rh"},
	"artists": [{"name": "M83"}, {"name": "Someone Else"}],
	"album": {"name": "Hurry Up, We're Dreaming", "images": [{"url": "https://i.scdn.co/image/cover"}]}
}`

func staticTokens(calls *int32) *spotify.TokenCache {
	return spotify.NewTokenCache("id", "secret", "http://unused", spotify.WithExchange(func(ctx context.Context) (*oauth2.Token, error) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		return &oauth2.Token{AccessToken: "test-token", ExpiresIn: 3600}, nil
	}))
}

func TestResolveTrack(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		status     int
		body       string
		wantNil    bool
		wantURL    string
		wantArtist string
	}{
		{
			name:       "first match",
			query:      "Midnight City by M83",
			status:     http.StatusOK,
			body:       `{"tracks":{"items":[` + trackJSON + `]}}`,
			wantURL:    "https://open.spotify.com/track/4iV5W9uYEdYUVa79Axb7Rh",
			wantArtist: "M83",
		},
		{
			name:    "no items",
			query:   "nothing at all",
			status:  http.StatusOK,
			body:    `{"tracks":{"items":[]}}`,
			wantNil: true,
		},
		{
			name:    "upstream error is swallowed",
			query:   "chill lofi",
			status:  http.StatusInternalServerError,
			body:    `{}`,
			wantNil: true,
		},
		{
			name:    "malformed body is swallowed",
			query:   "chill lofi",
			status:  http.StatusOK,
			body:    `{"tracks":`,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requests int32
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&requests, 1)
				if r.URL.Path != "/search" {
					t.Errorf("path: got %s, want /search", r.URL.Path)
				}
				q := r.URL.Query()
				if q.Get("q") != tt.query || q.Get("type") != "track" || q.Get("limit") != "1" {
					t.Errorf("unexpected query params: %v", q)
				}
				if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
					t.Errorf("authorization: got %q", got)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			client := spotify.NewClient(ts.URL, staticTokens(nil))
			got := client.ResolveTrack(context.Background(), tt.query)

			if atomic.LoadInt32(&requests) != 1 {
				t.Fatalf("requests: got %d, want exactly 1", requests)
			}
			if tt.wantNil {
				if got != nil {
					t.Fatalf("expected nil, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected track, got nil")
			}
			if got.URL != tt.wantURL {
				t.Errorf("URL: got %q, want %q", got.URL, tt.wantURL)
			}
			if got.Artist != tt.wantArtist {
				t.Errorf("Artist: got %q, want %q", got.Artist, tt.wantArtist)
			}
			if got.AlbumArt != "https://i.scdn.co/image/cover" {
				t.Errorf("AlbumArt: got %q", got.AlbumArt)
			}
			if got.Confidence != 1.0 {
				t.Errorf("Confidence: got %v, want 1", got.Confidence)
			}
		})
	}
}

func TestResolveTrack_CanceledMakesNoRequest(t *testing.T) {
	var requests, exchanges int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := spotify.NewClient(ts.URL, staticTokens(&exchanges))
	if got := client.ResolveTrack(ctx, "chill lofi"); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
	if requests != 0 || exchanges != 0 {
		t.Fatalf("expected no network activity, got %d requests and %d exchanges", requests, exchanges)
	}
}

func TestResolveTrack_UnauthorizedInvalidatesToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	var exchanges int32
	client := spotify.NewClient(ts.URL, staticTokens(&exchanges))

	_ = client.ResolveTrack(context.Background(), "chill lofi")
	_ = client.ResolveTrack(context.Background(), "chill lofi")

	if got := atomic.LoadInt32(&exchanges); got != 2 {
		t.Fatalf("exchanges: got %d, want 2", got)
	}
}

func TestLookupTrack(t *testing.T) {
	tests := []struct {
		name      string
		statuses  []int
		wantErr   error
		wantCalls int32
	}{
		{
			name:      "ok",
			statuses:  []int{http.StatusOK},
			wantCalls: 1,
		},
		{
			name:      "retries rate limit then succeeds",
			statuses:  []int{http.StatusTooManyRequests, http.StatusOK},
			wantCalls: 2,
		},
		{
			name:      "not found",
			statuses:  []int{http.StatusNotFound},
			wantErr:   domain.ErrNotFound,
			wantCalls: 1,
		},
		{
			name:      "rejected",
			statuses:  []int{http.StatusForbidden},
			wantErr:   ports.ErrUpstreamRejected,
			wantCalls: 1,
		},
		{
			name:      "server errors exhaust retries",
			statuses:  []int{http.StatusBadGateway, http.StatusBadGateway},
			wantErr:   ports.ErrUpstreamRejected,
			wantCalls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := atomic.AddInt32(&calls, 1)
				if !strings.HasSuffix(r.URL.Path, "/tracks/4iV5W9uYEdYUVa79Axb7Rh") {
					t.Errorf("path: got %s", r.URL.Path)
				}
				status := tt.statuses[len(tt.statuses)-1]
				if int(n) <= len(tt.statuses) {
					status = tt.statuses[n-1]
				}
				w.WriteHeader(status)
				if status == http.StatusOK {
					_, _ = w.Write([]byte(trackJSON))
				}
			}))
			defer ts.Close()

			client := spotify.NewClient(ts.URL, staticTokens(nil), spotify.WithRetry(2, time.Millisecond))
			got, err := client.LookupTrack(context.Background(), "4iV5W9uYEdYUVa79Axb7Rh")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error: got %v, want %v", err, tt.wantErr)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				want := domain.TrackInfo{Name: "Midnight City", Artist: "M83", AlbumArt: "https://i.scdn.co/image/cover"}
				if got != want {
					t.Fatalf("info: got %+v, want %+v", got, want)
				}
			}
			if c := atomic.LoadInt32(&calls); c != tt.wantCalls {
				t.Fatalf("calls: got %d, want %d", c, tt.wantCalls)
			}
		})
	}
}

func TestLookupTrack_EmptyID(t *testing.T) {
	client := spotify.NewClient("http://unused", staticTokens(nil))
	if _, err := client.LookupTrack(context.Background(), "  "); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestTrackIDFromURL(t *testing.T) {
	tests := []struct {
		link   string
		wantID string
		wantOK bool
	}{
		{link: "https://open.spotify.com/track/4iV5W9uYEdYUVa79Axb7Rh", wantID: "4iV5W9uYEdYUVa79Axb7Rh", wantOK: true},
		{link: "https://open.spotify.com/track/4iV5W9uYEdYUVa79Axb7Rh?si=abc", wantID: "4iV5W9uYEdYUVa79Axb7Rh", wantOK: true},
		{link: "https://open.spotify.com/album/xyz", wantOK: false},
		{link: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			id, ok := spotify.TrackIDFromURL(tt.link)
			if id != tt.wantID || ok != tt.wantOK {
				t.Fatalf("TrackIDFromURL(%q) = (%q, %v), want (%q, %v)", tt.link, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}
