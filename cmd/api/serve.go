package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/aestheticify/internal/adapters/auth"
	"github.com/ewilliams-labs/aestheticify/internal/adapters/groq"
	"github.com/ewilliams-labs/aestheticify/internal/adapters/memory"
	"github.com/ewilliams-labs/aestheticify/internal/adapters/ollama"
	"github.com/ewilliams-labs/aestheticify/internal/adapters/redis"
	"github.com/ewilliams-labs/aestheticify/internal/adapters/rest"
	"github.com/ewilliams-labs/aestheticify/internal/adapters/spotify"
	"github.com/ewilliams-labs/aestheticify/internal/adapters/sqlite"
	"github.com/ewilliams-labs/aestheticify/internal/config"
	"github.com/ewilliams-labs/aestheticify/internal/core/ports"
	"github.com/ewilliams-labs/aestheticify/internal/core/services"
	"github.com/ewilliams-labs/aestheticify/internal/core/vibes"
	"github.com/ewilliams-labs/aestheticify/internal/metrics"
	"github.com/ewilliams-labs/aestheticify/internal/worker"
)

func runServe(parent context.Context, log zerolog.Logger) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Configuration
	cfg, err := config.New(log)
	if err != nil {
		return err
	}
	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	// 2. Driven adapters
	store, err := sqlite.NewAdapter(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	markers, closeMarkers, err := newSessionMarkers(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeMarkers()

	tokens := spotify.NewTokenCache(cfg.SpotifyClientID, cfg.SpotifyClientSecret, cfg.SpotifyAuthURL,
		spotify.WithRefreshMargin(cfg.TokenRenewMargin))
	catalog := spotify.NewClient(cfg.SpotifyAPIURL, tokens,
		spotify.WithRetry(cfg.SpotifyMaxRetries, cfg.RetryBackoff()),
		spotify.WithLogger(log))

	text := newTextGenerator(cfg)

	sampler, err := vibes.NewSampler(cfg.SamplerSeed)
	if err != nil {
		return err
	}

	// 3. Core services
	m := metrics.New()

	pool := worker.NewPool(store, catalog, spotify.TrackIDFromURL, cfg.QueueSize,
		worker.WithLogger(log), worker.WithRecorder(m))
	pool.Start(cfg.Workers)
	defer pool.Stop()

	orch := services.NewOrchestrator(sampler, text, catalog, m, log)
	sharing := services.NewSharingService(store, markers, auth.ContextIdentity{},
		services.WithEnrichment(pool),
		services.WithRecorder(m),
		services.WithLogger(log))
	sessions := services.NewSessions(orch, sharing, log,
		services.WithIdleTTL(cfg.SessionIdleTTL),
		services.WithMaxSessions(cfg.MaxSessions))
	defer sessions.CloseAll()
	go sessions.RunJanitor(ctx, sessionSweepInterval(cfg.SessionIdleTTL))

	ambient := worker.DefaultAmbient(vibes.Audios)
	if cfg.AudioAssetDir != "" {
		ambient = worker.AnalyzeAmbient(cfg.AudioAssetDir, vibes.Audios, log)
	}

	// 4. Driving adapter
	if cfg.DevSignIn {
		log.Warn().Msg("Development sign-in enabled: POST /auth/token issues tokens for any identity")
	}
	handler := rest.NewHandler(rest.Deps{
		Sessions: sessions,
		Sharing:  sharing,
		Sampler:  sampler,
		Tracks:   catalog,
		Auth:     auth.NewAuthenticator(cfg.JWTSecret, cfg.JWTTTL),
		Store:    store,
		Metrics:  m.Handler(),
		Ambient:  ambient,
		Logger:   log,

		DevSignIn: cfg.DevSignIn,
	})

	// 5. Serve
	srv := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()
	log.Info().Str("addr", srv.Addr).Msg("Aestheticify API is running")

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	}
}

func newTextGenerator(cfg *config.Config) ports.TextGenerator {
	if cfg.TextgenProvider == "ollama" {
		return ollama.NewClient(cfg.OllamaHost, cfg.OllamaModel)
	}
	return groq.NewClient(groq.Config{
		APIKey:      cfg.GroqAPIKey,
		BaseURL:     cfg.GroqBaseURL,
		Model:       cfg.GroqModel,
		Temperature: cfg.GroqTemperature,
	})
}

func newSessionMarkers(ctx context.Context, cfg *config.Config) (ports.SessionMarkers, func(), error) {
	if cfg.SessionStore != "redis" {
		return memory.NewMarkers(), func() {}, nil
	}
	client, err := redis.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return redis.NewMarkers(client, cfg.SessionMarkerTTL), func() { _ = client.Close() }, nil
}

// sessionSweepInterval checks for idle sessions a few times per TTL.
func sessionSweepInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}
