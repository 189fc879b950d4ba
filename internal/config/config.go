// Package config loads service settings from AESTHETICIFY_-prefixed
// environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
)

const envPrefix = "AESTHETICIFY"

// Config holds the configuration for the API service.
// Example: AESTHETICIFY_HTTP_PORT, AESTHETICIFY_GROQ_API_KEY
type Config struct {
	HTTPPort        int           `envconfig:"HTTP_PORT" default:"8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	DBPath string `envconfig:"DB_PATH" default:"aestheticify.db"`

	// Catalog search
	SpotifyClientID     string        `envconfig:"SPOTIFY_CLIENT_ID"`
	SpotifyClientSecret string        `envconfig:"SPOTIFY_CLIENT_SECRET"`
	SpotifyAPIURL       string        `envconfig:"SPOTIFY_API_URL" default:"https://api.spotify.com/v1"`
	SpotifyAuthURL      string        `envconfig:"SPOTIFY_AUTH_URL" default:"https://accounts.spotify.com/api/token"`
	SpotifyMaxRetries   int           `envconfig:"SPOTIFY_MAX_RETRIES" default:"3"`
	SpotifyRetryBackoff int           `envconfig:"SPOTIFY_RETRY_BACKOFF_MS" default:"500"`
	TokenRenewMargin    time.Duration `envconfig:"TOKEN_RENEW_MARGIN" default:"60s"`

	// Text generation
	TextgenProvider string  `envconfig:"TEXTGEN_PROVIDER" default:"groq"`
	GroqAPIKey      string  `envconfig:"GROQ_API_KEY"`
	GroqBaseURL     string  `envconfig:"GROQ_BASE_URL" default:"https://api.groq.com/openai/v1"`
	GroqModel       string  `envconfig:"GROQ_MODEL" default:"deepseek-r1-distill-llama-70b"`
	GroqTemperature float64 `envconfig:"GROQ_TEMPERATURE" default:"0.9"`
	OllamaHost      string  `envconfig:"OLLAMA_HOST" default:"http://localhost:11434"`
	OllamaModel     string  `envconfig:"OLLAMA_MODEL" default:"deepseek-r1:8b"`

	// Identity. Tokens are normally minted by the identity frontend with the
	// shared secret; DevSignIn exposes POST /auth/token for local use only.
	JWTSecret string        `envconfig:"JWT_SECRET"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`
	DevSignIn bool          `envconfig:"DEV_SIGNIN" default:"false"`

	// Session markers
	SessionStore     string        `envconfig:"SESSION_STORE" default:"memory"`
	RedisAddr        string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword    string        `envconfig:"REDIS_PASSWORD"`
	RedisDB          int           `envconfig:"REDIS_DB" default:"0"`
	SessionMarkerTTL time.Duration `envconfig:"SESSION_MARKER_TTL" default:"24h"`

	// Generation sessions
	SessionIdleTTL time.Duration `envconfig:"SESSION_IDLE_TTL" default:"30m"`
	MaxSessions    int           `envconfig:"MAX_SESSIONS" default:"10000"`

	// Enrichment workers
	Workers   int `envconfig:"WORKERS" default:"2"`
	QueueSize int `envconfig:"QUEUE_SIZE" default:"100"`

	AudioAssetDir string `envconfig:"AUDIO_ASSET_DIR"`
	SamplerSeed   uint64 `envconfig:"SAMPLER_SEED" default:"0"`
}

// ResolveDefaults normalizes enumerations and rejects values the service cannot run with.
func (c *Config) ResolveDefaults() error {
	c.TextgenProvider = strings.ToLower(strings.TrimSpace(c.TextgenProvider))
	if c.TextgenProvider == "" {
		c.TextgenProvider = "groq"
	}
	switch c.TextgenProvider {
	case "groq", "ollama":
	default:
		return fmt.Errorf("unsupported TEXTGEN_PROVIDER: %s", c.TextgenProvider)
	}

	c.SessionStore = strings.ToLower(strings.TrimSpace(c.SessionStore))
	if c.SessionStore == "" {
		c.SessionStore = "memory"
	}
	switch c.SessionStore {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported SESSION_STORE: %s", c.SessionStore)
	}

	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT: %d", c.HTTPPort)
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.QueueSize < 1 {
		c.QueueSize = 1
	}
	if c.SpotifyMaxRetries < 0 {
		c.SpotifyMaxRetries = 0
	}
	if c.TokenRenewMargin < 0 {
		return fmt.Errorf("invalid TOKEN_RENEW_MARGIN: %s", c.TokenRenewMargin)
	}
	if c.SessionIdleTTL <= 0 {
		return fmt.Errorf("invalid SESSION_IDLE_TTL: %s", c.SessionIdleTTL)
	}
	if c.MaxSessions < 0 {
		c.MaxSessions = 0
	}
	return nil
}

// ValidateServe checks the settings only the HTTP server needs.
func (c *Config) ValidateServe() error {
	var missing []string
	if c.SpotifyClientID == "" {
		missing = append(missing, envPrefix+"_SPOTIFY_CLIENT_ID")
	}
	if c.SpotifyClientSecret == "" {
		missing = append(missing, envPrefix+"_SPOTIFY_CLIENT_SECRET")
	}
	if c.TextgenProvider == "groq" && c.GroqAPIKey == "" {
		missing = append(missing, envPrefix+"_GROQ_API_KEY")
	}
	if c.JWTSecret == "" {
		missing = append(missing, envPrefix+"_JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// New creates a Config by parsing environment variables and logs a summary.
// Secrets are only reported as present or absent.
func New(logger zerolog.Logger) (*Config, error) {
	var cfg Config

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	logger.Info().
		Int("port", cfg.HTTPPort).
		Str("db_path", cfg.DBPath).
		Str("spotify_api_url", cfg.SpotifyAPIURL).
		Bool("spotify_credentials_present", cfg.SpotifyClientID != "" && cfg.SpotifyClientSecret != "").
		Int("spotify_max_retries", cfg.SpotifyMaxRetries).
		Str("textgen_provider", cfg.TextgenProvider).
		Str("textgen_model", cfg.TextModel()).
		Bool("groq_api_key_present", cfg.GroqAPIKey != "").
		Bool("jwt_secret_present", cfg.JWTSecret != "").
		Bool("dev_signin", cfg.DevSignIn).
		Str("session_store", cfg.SessionStore).
		Dur("session_idle_ttl", cfg.SessionIdleTTL).
		Int("max_sessions", cfg.MaxSessions).
		Int("workers", cfg.Workers).
		Int("queue_size", cfg.QueueSize).
		Str("audio_asset_dir", cfg.AudioAssetDir).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a fully populated config for tests.
func NewForTesting() *Config {
	return &Config{
		HTTPPort:            8080,
		ShutdownTimeout:     time.Second,
		DBPath:              ":memory:",
		SpotifyClientID:     "test-client",
		SpotifyClientSecret: "test-secret",
		SpotifyAPIURL:       "http://localhost:9999/v1",
		SpotifyAuthURL:      "http://localhost:9999/api/token",
		SpotifyMaxRetries:   1,
		SpotifyRetryBackoff: 1,
		TokenRenewMargin:    60 * time.Second,
		TextgenProvider:     "groq",
		GroqAPIKey:          "test-key",
		GroqBaseURL:         "http://localhost:9998/openai/v1",
		GroqModel:           "deepseek-r1-distill-llama-70b",
		GroqTemperature:     0.9,
		OllamaHost:          "http://localhost:11434",
		OllamaModel:         "deepseek-r1:8b",
		JWTSecret:           "test-jwt-secret",
		JWTTTL:              time.Hour,
		SessionStore:        "memory",
		RedisAddr:           "localhost:6379",
		SessionMarkerTTL:    time.Hour,
		SessionIdleTTL:      time.Minute,
		MaxSessions:         100,
		Workers:             1,
		QueueSize:           10,
		SamplerSeed:         42,
	}
}

// TextModel returns the model name of the selected text generation provider.
func (c *Config) TextModel() string {
	if c.TextgenProvider == "ollama" {
		return c.OllamaModel
	}
	return c.GroqModel
}

// RetryBackoff returns the base backoff for catalog retries.
func (c *Config) RetryBackoff() time.Duration {
	return time.Duration(c.SpotifyRetryBackoff) * time.Millisecond
}

// GetHTTPAddr returns the HTTP server address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
