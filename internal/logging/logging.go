// Package logging builds the process logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/latoulicious/Reaxn/internal/config"
)

// New builds a logger from cfg. Unknown levels fall back to info and
// unknown outputs to stderr.
func New(cfg config.LoggingConfig) zerolog.Logger {
	return NewWithWriter(cfg, output(cfg.Output))
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(cfg config.LoggingConfig, w io.Writer) zerolog.Logger {
	if strings.ToLower(cfg.Format) != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", "reaxnbot").
		Logger()
}

// ParseLevel converts a level name, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func output(name string) io.Writer {
	if name == "stdout" {
		return os.Stdout
	}
	return os.Stderr
}
