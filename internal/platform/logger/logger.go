// Package logger provides a configured zerolog logger.
package logger

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options controls output format and verbosity.
type Options struct {
	// Level is a zerolog level name; empty or unknown means info.
	Level  string
	Pretty bool
	Out    io.Writer
}

// New returns the application logger. LOG_LEVEL and LOG_PRETTY are read from
// the environment so logging is ready before configuration loads.
func New(serviceName string) zerolog.Logger {
	pretty, _ := strconv.ParseBool(os.Getenv("LOG_PRETTY"))
	return NewWithOptions(serviceName, Options{
		Level:  os.Getenv("LOG_LEVEL"),
		Pretty: pretty,
	})
}

// NewWithOptions builds a logger writing JSON, or console text when Pretty is set.
func NewWithOptions(serviceName string, opts Options) zerolog.Logger {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: true}
	}

	return zerolog.New(out).
		Level(ParseLevel(opts.Level)).
		With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(name string) zerolog.Level {
	if strings.TrimSpace(name) == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
