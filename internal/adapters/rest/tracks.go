package rest

import (
	"net/http"

	"github.com/gorilla/mux"
)

// GetTrack handles GET /tracks/{id}
func (h *Handler) GetTrack(w http.ResponseWriter, r *http.Request) {
	if h.tracks == nil {
		writeError(w, http.StatusNotImplemented, "track lookup not configured")
		return
	}

	info, err := h.tracks.LookupTrack(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.logger.Warn().Err(err).Msg("rest: track lookup failed")
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}
