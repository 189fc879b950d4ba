package spotify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/aestheticify/internal/core/ports"
)

const collaborator = "catalog"

// Client is an HTTP client for the Spotify Web API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	tokens      *TokenCache
	maxRetries  int
	baseBackoff time.Duration
	logger      zerolog.Logger
}

// compile-time interface assertions
var (
	_ ports.CatalogSearcher = (*Client)(nil)
	_ ports.TrackLookup     = (*Client)(nil)
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRetry configures the retry policy for track lookups.
func WithRetry(maxRetries int, baseBackoff time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.baseBackoff = baseBackoff
	}
}

// WithLogger sets the adapter logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient constructs a new Spotify client.
func NewClient(baseURL string, tokens *TokenCache, opts ...Option) *Client {
	c := &Client{
		httpClient:  http.DefaultClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		tokens:      tokens,
		maxRetries:  defaultMaxRetries,
		baseBackoff: time.Duration(defaultBackoffMs) * time.Millisecond,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) authorize(ctx context.Context, req *http.Request) error {
	token, err := c.tokens.Get(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// rejected builds the error for a non-success status, dropping the cached
// token when the API refused it.
func (c *Client) rejected(status int) error {
	if status == http.StatusUnauthorized {
		c.tokens.Invalidate()
	}
	return fmt.Errorf("spotify adapter: %w", &ports.UpstreamError{Collaborator: collaborator, StatusCode: status})
}
