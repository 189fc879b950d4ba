package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ewilliams-labs/aestheticify/internal/core/domain"
)

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// IssueToken handles POST /auth/token
//
// Development sign-in: the caller asserts an identity and receives a bearer
// token for it. Only routed when Deps.DevSignIn is set.
func (h *Handler) IssueToken(w http.ResponseWriter, r *http.Request) {
	if h.auth == nil {
		writeError(w, http.StatusNotImplemented, "sign-in not configured")
		return
	}
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var id domain.Identity
	if err := json.NewDecoder(r.Body).Decode(&id); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, expires, err := h.auth.Issue(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token, ExpiresAt: expires})
}
