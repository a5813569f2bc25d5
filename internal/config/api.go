package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/JaimeStill/pulse/pkg/formatting"
	"github.com/JaimeStill/pulse/pkg/middleware"
	"github.com/JaimeStill/pulse/pkg/pagination"
)

const (
	EnvAPIMaxTextLength    = "PULSE_API_MAX_TEXT_LENGTH"
	EnvAPIMaxBatchSize     = "PULSE_API_MAX_BATCH_SIZE"
	EnvAPIBatchConcurrency = "PULSE_API_BATCH_CONCURRENCY"
	EnvAPIMaxBodySize      = "PULSE_API_MAX_BODY_SIZE"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "PULSE_CORS_ENABLED",
	Origins:          "PULSE_CORS_ORIGINS",
	AllowedMethods:   "PULSE_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "PULSE_CORS_ALLOWED_HEADERS",
	AllowCredentials: "PULSE_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "PULSE_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "PULSE_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "PULSE_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds request limits, CORS, and pagination settings.
type APIConfig struct {
	MaxTextLength    int                   `toml:"max_text_length"`
	MaxBatchSize     int                   `toml:"max_batch_size"`
	BatchConcurrency int                   `toml:"batch_concurrency"`
	MaxBodySize      string                `toml:"max_body_size"`
	CORS             middleware.CORSConfig `toml:"cors"`
	Pagination       pagination.Config     `toml:"pagination"`
}

// MaxBodySizeBytes returns MaxBodySize in bytes. Validation guarantees it parses.
func (c *APIConfig) MaxBodySizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxBodySize)
	if err != nil {
		return 1024 * 1024
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.MaxTextLength != 0 {
		c.MaxTextLength = overlay.MaxTextLength
	}
	if overlay.MaxBatchSize != 0 {
		c.MaxBatchSize = overlay.MaxBatchSize
	}
	if overlay.BatchConcurrency != 0 {
		c.BatchConcurrency = overlay.BatchConcurrency
	}
	if overlay.MaxBodySize != "" {
		c.MaxBodySize = overlay.MaxBodySize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	if c.MaxTextLength == 0 {
		c.MaxTextLength = 5000
	}
	if c.MaxBatchSize == 0 {
		c.MaxBatchSize = 100
	}
	if c.BatchConcurrency == 0 {
		c.BatchConcurrency = 4
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "1MB"
	}
}

func (c *APIConfig) loadEnv() {
	setInt := func(name string, dst *int) {
		if v := os.Getenv(name); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setInt(EnvAPIMaxTextLength, &c.MaxTextLength)
	setInt(EnvAPIMaxBatchSize, &c.MaxBatchSize)
	setInt(EnvAPIBatchConcurrency, &c.BatchConcurrency)

	if v := os.Getenv(EnvAPIMaxBodySize); v != "" {
		c.MaxBodySize = v
	}
}

func (c *APIConfig) validate() error {
	if c.MaxTextLength < 1 {
		return fmt.Errorf("max_text_length must be positive")
	}
	if c.MaxBatchSize < 1 {
		return fmt.Errorf("max_batch_size must be positive")
	}
	if c.BatchConcurrency < 1 {
		return fmt.Errorf("batch_concurrency must be positive")
	}
	if _, err := formatting.ParseBytes(c.MaxBodySize); err != nil {
		return fmt.Errorf("invalid max_body_size: %w", err)
	}
	return nil
}
