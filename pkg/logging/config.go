package logging

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Config holds log level and output format.
type Config struct {
	Level     string `toml:"level"`
	Format    string `toml:"format"`
	AddSource bool   `toml:"add_source"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Level     string
	Format    string
	AddSource string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Level != "" {
		c.Level = overlay.Level
	}
	if overlay.Format != "" {
		c.Format = overlay.Format
	}
	if overlay.AddSource {
		c.AddSource = true
	}
}

// SlogLevel returns Level as a slog.Level. Unknown values resolve to info.
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func (c *Config) loadDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = FormatText
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Level != "" {
		if v := os.Getenv(env.Level); v != "" {
			c.Level = v
		}
	}
	if env.Format != "" {
		if v := os.Getenv(env.Format); v != "" {
			c.Format = strings.ToLower(v)
		}
	}
	if env.AddSource != "" {
		if v := os.Getenv(env.AddSource); v != "" {
			c.AddSource = v == "true" || v == "1"
		}
	}
}

func (c *Config) validate() error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Level)); err != nil {
		return fmt.Errorf("invalid level %q", c.Level)
	}
	switch c.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("invalid format %q: want %s or %s", c.Format, FormatText, FormatJSON)
	}
	return nil
}
