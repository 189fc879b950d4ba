package ports

import (
	"errors"
	"fmt"
)

var (
	// ErrCanceled reports that the caller's cancellation fired. It is not a failure.
	ErrCanceled = errors.New("canceled")
	// ErrUpstreamRejected reports a non-success status from a collaborator.
	ErrUpstreamRejected = errors.New("upstream rejected request")
	// ErrTransport reports a network or decoding failure talking to a collaborator.
	ErrTransport = errors.New("transport error")
)

// UpstreamError provides context for a rejected collaborator request.
type UpstreamError struct {
	Collaborator string
	StatusCode   int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s rejected request with status %d", e.Collaborator, e.StatusCode)
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamRejected
}
