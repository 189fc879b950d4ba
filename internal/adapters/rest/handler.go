package rest

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/aestheticify/internal/adapters/auth"
	"github.com/ewilliams-labs/aestheticify/internal/core/domain"
	"github.com/ewilliams-labs/aestheticify/internal/core/ports"
	"github.com/ewilliams-labs/aestheticify/internal/core/services"
	"github.com/ewilliams-labs/aestheticify/internal/worker"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the HTTP interface drives.
type Deps struct {
	Sessions *services.Sessions
	Sharing  *services.SharingService
	Sampler  services.VibeSampler
	Tracks   ports.TrackLookup
	Auth     *auth.Authenticator
	Store    Pinger
	Metrics  http.Handler
	Ambient  []worker.AmbientLevel
	Logger   zerolog.Logger

	// DevSignIn registers POST /auth/token, which mints a token for any
	// asserted identity. Local development only.
	DevSignIn bool
}

// Handler manages the HTTP interface for our application.
type Handler struct {
	sessions *services.Sessions
	sharing  *services.SharingService
	sampler  services.VibeSampler
	tracks   ports.TrackLookup
	auth     *auth.Authenticator
	store    Pinger
	ambient  []worker.AmbientLevel
	logger   zerolog.Logger

	router  *mux.Router
	handler http.Handler
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(d Deps) *Handler {
	h := &Handler{
		sessions: d.Sessions,
		sharing:  d.Sharing,
		sampler:  d.Sampler,
		tracks:   d.Tracks,
		auth:     d.Auth,
		store:    d.Store,
		ambient:  d.Ambient,
		logger:   d.Logger,
		router:   mux.NewRouter(),
	}

	h.routes(d.Metrics, d.DevSignIn)
	h.handler = recovery(h.logger, accessLog(h.logger, h.router))
	return h
}

// ServeHTTP satisfies the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.handler.ServeHTTP(w, r)
}

func (h *Handler) routes(metrics http.Handler, devSignIn bool) {
	h.router.Use(withSession, authenticate(h.auth))

	h.router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	if metrics != nil {
		h.router.Handle("/metrics", metrics).Methods(http.MethodGet)
	}

	h.router.HandleFunc("/themes", h.ListThemes).Methods(http.MethodGet)
	h.router.HandleFunc("/vibes/sample", h.SampleVibe).Methods(http.MethodGet)
	h.router.HandleFunc("/ambient", h.ListAmbient).Methods(http.MethodGet)

	h.router.HandleFunc("/sessions/{sid}/generate", h.Generate).Methods(http.MethodPost)
	h.router.HandleFunc("/sessions/{sid}/save", h.SaveSession).Methods(http.MethodPost)
	h.router.HandleFunc("/sessions/{sid}", h.GetSession).Methods(http.MethodGet)
	h.router.HandleFunc("/sessions/{sid}", h.CloseSession).Methods(http.MethodDelete)

	if devSignIn {
		h.router.HandleFunc("/auth/token", h.IssueToken).Methods(http.MethodPost)
	}

	h.router.HandleFunc("/entries/{id}", h.GetEntry).Methods(http.MethodGet)
	h.router.HandleFunc("/entries/{id}/link", h.LinkEntry).Methods(http.MethodPost)
	h.router.HandleFunc("/entries/{id}/claim", h.ClaimEntry).Methods(http.MethodPost)
	h.router.HandleFunc("/entries/{id}/saved", h.EntrySaved).Methods(http.MethodGet)
	h.router.HandleFunc("/me/vibes", h.ListMyVibes).Methods(http.MethodGet)

	h.router.HandleFunc("/tracks/{id}", h.GetTrack).Methods(http.MethodGet)
}

// HealthCheck reports liveness and, when configured, store reachability.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		if err := h.store.Ping(r.Context()); err != nil {
			h.logger.Error().Err(err).Msg("rest: health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "Aestheticify is live ✨"})
}

// ListThemes handles GET /themes
func (h *Handler) ListThemes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.Themes)
}

// SampleVibe handles GET /vibes/sample?theme=
func (h *Handler) SampleVibe(w http.ResponseWriter, r *http.Request) {
	theme, err := domain.ParseTheme(r.URL.Query().Get("theme"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	vibe, err := h.sampler.Sample(theme)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vibe)
}

// ListAmbient handles GET /ambient
func (h *Handler) ListAmbient(w http.ResponseWriter, r *http.Request) {
	levels := h.ambient
	if levels == nil {
		levels = []worker.AmbientLevel{}
	}
	writeJSON(w, http.StatusOK, levels)
}
