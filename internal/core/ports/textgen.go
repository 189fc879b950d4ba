package ports

import "context"

// TextGenerator sends a prompt to a completion endpoint and returns the raw text.
// Implementations make a single attempt. They return ErrCanceled when ctx is
// done before the response arrives, an error matching ErrUpstreamRejected for
// non-2xx statuses, and an error matching ErrTransport otherwise.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
