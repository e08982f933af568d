// Package slogx configures the service's structured logging and carries
// request-scoped loggers through context.
package slogx

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// DefaultService is the service tag stamped on every record when the
// config leaves it empty.
const DefaultService = "siscomando-api"

type Config struct {
	Service string
	Version string
	Env     string // e.g. "dev", "prod"
	Level   string // e.g. "debug", "info", "warn", "error"
	Format  string // "text" for local reading, anything else means JSON

	// Output defaults to os.Stdout. Tests redirect it to keep their
	// output clean.
	Output io.Writer
}

// New returns a configured slog.Logger tagged with the service identity
// and installs it as the process default, so code without a contextual
// logger still logs consistently.
func New(cfg Config) *slog.Logger {
	if cfg.Service == "" {
		cfg.Service = DefaultService
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{
		AddSource: cfg.Env == "dev",
		Level:     parseLevel(cfg.Level),
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	logger := slog.New(handler).With(
		"service", cfg.Service,
		"version", cfg.Version,
		"env", cfg.Env,
	)

	slog.SetDefault(logger)
	return logger
}

func parseLevel(lvl string) slog.Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
