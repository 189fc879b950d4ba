package spotify

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	// DefaultRefreshMargin renews the token this long before it expires.
	DefaultRefreshMargin = 60 * time.Second
	// fallbackTTL applies when the provider omits expires_in.
	fallbackTTL = time.Hour
)

// ExchangeFunc performs a client-credentials exchange.
type ExchangeFunc func(ctx context.Context) (*oauth2.Token, error)

type cachedToken struct {
	value  string
	expiry time.Time
}

// TokenCache holds the process-wide bearer token for the Spotify API.
//
// Refreshes are not serialized. Callers that observe an expiring token
// concurrently may each run an exchange and the last store wins; tokens are
// interchangeable so the only cost is an extra round trip.
type TokenCache struct {
	exchange ExchangeFunc
	now      func() time.Time
	margin   time.Duration
	current  atomic.Pointer[cachedToken]
}

// TokenOption configures a TokenCache.
type TokenOption func(*TokenCache)

// WithClock overrides the time source.
func WithClock(now func() time.Time) TokenOption {
	return func(tc *TokenCache) {
		tc.now = now
	}
}

// WithExchange overrides the credential exchange.
func WithExchange(fn ExchangeFunc) TokenOption {
	return func(tc *TokenCache) {
		tc.exchange = fn
	}
}

// WithRefreshMargin overrides DefaultRefreshMargin.
func WithRefreshMargin(margin time.Duration) TokenOption {
	return func(tc *TokenCache) {
		tc.margin = margin
	}
}

// NewTokenCache returns a cache that exchanges clientID and clientSecret at
// tokenURL using HTTP Basic auth.
func NewTokenCache(clientID, clientSecret, tokenURL string, opts ...TokenOption) *TokenCache {
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	tc := &TokenCache{
		exchange: cfg.Token,
		now:      time.Now,
		margin:   DefaultRefreshMargin,
	}
	for _, opt := range opts {
		opt(tc)
	}
	return tc
}

// Get returns the cached token, exchanging credentials first when there is no
// token or the current one is within the refresh margin of expiry.
func (tc *TokenCache) Get(ctx context.Context) (string, error) {
	if cur := tc.current.Load(); cur != nil && tc.now().Before(cur.expiry.Add(-tc.margin)) {
		return cur.value, nil
	}

	tok, err := tc.exchange(ctx)
	if err != nil {
		return "", fmt.Errorf("spotify adapter: token exchange: %w", err)
	}
	if tok == nil || tok.AccessToken == "" {
		return "", errors.New("spotify adapter: token exchange returned no access token")
	}

	tc.current.Store(&cachedToken{
		value:  tok.AccessToken,
		expiry: tc.now().Add(tokenTTL(tok)),
	})
	return tok.AccessToken, nil
}

// Invalidate drops the cached token so the next Get exchanges again.
func (tc *TokenCache) Invalidate() {
	tc.current.Store(nil)
}

func tokenTTL(tok *oauth2.Token) time.Duration {
	if tok.ExpiresIn > 0 {
		return time.Duration(tok.ExpiresIn) * time.Second
	}
	if !tok.Expiry.IsZero() {
		return time.Until(tok.Expiry)
	}
	return fallbackTTL
}
