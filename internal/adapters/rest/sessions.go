package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ewilliams-labs/aestheticify/internal/core/domain"
)

type generateRequest struct {
	Theme string `json:"theme"`
}

type saveResponse struct {
	ID string `json:"id"`
}

// Generate handles POST /sessions/{sid}/generate
//
// A request superseded by a newer one for the same session answers 200 with
// state "cancelled"; GET /sessions/{sid} returns the newer run.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	sid := mux.Vars(r)["sid"]

	var req generateRequest
	if r.ContentLength != 0 {
		if !isJSONContentType(r) {
			writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	theme, err := domain.ParseTheme(req.Theme)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	snap := h.sessions.Get(sid).Generate(r.Context(), theme)
	writeJSON(w, http.StatusOK, snap)
}

// GetSession handles GET /sessions/{sid}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.Lookup(mux.Vars(r)["sid"])
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// CloseSession handles DELETE /sessions/{sid}
func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.Close(mux.Vars(r)["sid"]) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SaveSession handles POST /sessions/{sid}/save
func (h *Handler) SaveSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.Lookup(mux.Vars(r)["sid"])
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	id, err := sess.AutoSave(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Location", "/entries/"+id)
	writeJSON(w, http.StatusOK, saveResponse{ID: id})
}
