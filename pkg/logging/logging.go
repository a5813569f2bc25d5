// Package logging builds the service's slog.Logger from configuration.
package logging

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New returns a logger writing to w. Text output is colorized by tint;
// JSON output uses the standard library handler for log shippers.
func New(cfg *Config, w io.Writer) *slog.Logger {
	if cfg.Format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     cfg.SlogLevel(),
			AddSource: cfg.AddSource,
		}))
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      cfg.SlogLevel(),
		AddSource:  cfg.AddSource,
		TimeFormat: time.TimeOnly,
	}))
}
