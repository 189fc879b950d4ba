package spotify

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ewilliams-labs/aestheticify/internal/core/ports"
)

const (
	defaultMaxRetries = 3
	defaultBackoffMs  = 500

	// maxRetryAfter bounds a server-requested wait so a background job never
	// parks on one lookup for minutes.
	maxRetryAfter = 30 * time.Second
)

// retryPolicy decides how many attempts a request gets and how long to wait
// between them.
type retryPolicy struct {
	attempts int
	base     time.Duration
}

func (c *Client) retryPolicy() retryPolicy {
	p := retryPolicy{attempts: c.maxRetries, base: c.baseBackoff}
	if p.attempts <= 0 {
		p.attempts = defaultMaxRetries
	}
	if p.base <= 0 {
		p.base = time.Duration(defaultBackoffMs) * time.Millisecond
	}
	return p
}

// wait returns the pause before attempt+1: exponential from base, replaced
// by the server's Retry-After when given, capped at maxRetryAfter.
func (p retryPolicy) wait(attempt int, retryAfter time.Duration) time.Duration {
	d := p.base << attempt
	if retryAfter > 0 {
		d = retryAfter
	}
	return min(d, maxRetryAfter)
}

// retryable reports whether a response status is worth another attempt.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// doRequestWithRetry sends a body-less request, retrying transport failures,
// 429 and 5xx. The returned response is the first non-retryable one; on
// failure the error wraps ports.ErrCanceled, ports.ErrTransport or a
// *ports.UpstreamError for the last status seen.
func (c *Client) doRequestWithRetry(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	policy := c.retryPolicy()

	var lastErr error
	for attempt := range policy.attempts {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("spotify adapter: %w: %v", ports.ErrCanceled, ctx.Err())
		}

		// #nosec G107 -- URL constructed from configured Spotify API base URL
		resp, err := c.httpClient.Do(req)
		var retryAfter time.Duration
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, fmt.Errorf("spotify adapter: %w: %v", ports.ErrCanceled, err)
			}
			lastErr = fmt.Errorf("spotify adapter: %w: %v", ports.ErrTransport, err)
			c.logger.Warn().Err(err).Int("attempt", attempt+1).Msg("spotify adapter: request failed, retrying")
		case retryable(resp.StatusCode):
			retryAfter = parseRetryAfter(resp)
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("spotify adapter: %w", &ports.UpstreamError{Collaborator: collaborator, StatusCode: resp.StatusCode})
			c.logger.Warn().Int("status", resp.StatusCode).Int("attempt", attempt+1).Msg("spotify adapter: upstream busy, retrying")
		default:
			return resp, nil
		}

		if attempt == policy.attempts-1 {
			break
		}
		if err := sleepWithContext(ctx, policy.wait(attempt, retryAfter)); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w (after %d attempts)", lastErr, policy.attempts)
}

// parseRetryAfter reads Retry-After as seconds or an HTTP date.
func parseRetryAfter(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(v); err == nil {
		return max(time.Duration(seconds)*time.Second, 0)
	}
	if when, err := http.ParseTime(v); err == nil {
		return max(time.Until(when), 0)
	}
	return 0
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("spotify adapter: %w: %w", ports.ErrCanceled, ctx.Err())
	case <-timer.C:
		return nil
	}
}
