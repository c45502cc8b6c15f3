// Package logging builds the structured loggers used by the commands.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"chosenoffset.com/sightline/internal/config"
	"chosenoffset.com/sightline/visibility"
)

// New creates a slog logger writing to w with the configured level and
// format.
func New(w io.Writer, cfg config.LogConfig) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.Level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch cfg.Format {
	case "", "text":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	return slog.New(handler), nil
}

// Setup creates the logger, makes it the slog default and, at debug level,
// routes the visibility package's records through it.
func Setup(w io.Writer, cfg config.LogConfig) (*slog.Logger, error) {
	logger, err := New(w, cfg)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		visibility.SetLogger(logger.With("component", "visibility"))
	} else {
		visibility.SetLogger(nil)
	}
	return logger, nil
}
