package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ewilliams-labs/aestheticify/internal/core/domain"
)

type linkResponse struct {
	ID string `json:"id"`
}

type claimResponse struct {
	Claimed bool `json:"claimed"`
}

type savedResponse struct {
	Saved bool `json:"saved"`
}

type vibesResponse struct {
	Vibes []domain.VibeArtifact `json:"vibes"`
}

// GetEntry handles GET /entries/{id}
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	art, err := h.sharing.GetArtifact(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, art)
}

// LinkEntry handles POST /entries/{id}/link
func (h *Handler) LinkEntry(w http.ResponseWriter, r *http.Request) {
	id, err := h.sharing.LinkToCurrentUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, linkResponse{ID: id})
}

// ClaimEntry handles POST /entries/{id}/claim
func (h *Handler) ClaimEntry(w http.ResponseWriter, r *http.Request) {
	claimed, err := h.sharing.ClaimCreator(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, claimResponse{Claimed: claimed})
}

// EntrySaved handles GET /entries/{id}/saved
func (h *Handler) EntrySaved(w http.ResponseWriter, r *http.Request) {
	saved, err := h.sharing.IsSavedByCurrentUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, savedResponse{Saved: saved})
}

// ListMyVibes handles GET /me/vibes
func (h *Handler) ListMyVibes(w http.ResponseWriter, r *http.Request) {
	vibes, err := h.sharing.ListMine(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vibesResponse{Vibes: vibes})
}
