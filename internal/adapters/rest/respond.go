package rest

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ewilliams-labs/aestheticify/internal/adapters/auth"
	"github.com/ewilliams-labs/aestheticify/internal/core/domain"
	"github.com/ewilliams-labs/aestheticify/internal/core/ports"
)

const (
	errCodeBadRequest       = "BAD_REQUEST"
	errCodeNotFound         = "NOT_FOUND"
	errCodeUnauthenticated  = "UNAUTHENTICATED"
	errCodeUpstream         = "UPSTREAM_UNAVAILABLE"
	errCodeInternal         = "INTERNAL"
	errCodeUnsupportedMedia = "UNSUPPORTED_MEDIA_TYPE"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("rest: failed to encode JSON response")
	}
}

func writeErrorWithCode(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Code:    code,
		Message: message,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	code := errCodeInternal
	switch status {
	case http.StatusBadRequest:
		code = errCodeBadRequest
	case http.StatusNotFound:
		code = errCodeNotFound
	case http.StatusUnauthorized:
		code = errCodeUnauthenticated
	case http.StatusUnsupportedMediaType:
		code = errCodeUnsupportedMedia
	case http.StatusBadGateway:
		code = errCodeUpstream
	}
	writeErrorWithCode(w, status, message, code)
}

// writeServiceError maps core errors to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNotAuthenticated), errors.Is(err, auth.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrInvalidTheme), errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ports.ErrUpstreamRejected), errors.Is(err, ports.ErrTransport):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func isJSONContentType(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}
