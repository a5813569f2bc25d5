package sentiment

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	ModelVader   = "vader"
	ModelOpenAI  = "openai"
	ModelKeyword = "keyword"
)

// Config selects the primary model and its scoring thresholds.
// A zero threshold is treated as unset.
type Config struct {
	Primary           string       `toml:"primary"`
	PositiveThreshold float64      `toml:"positive_threshold"`
	NegativeThreshold float64      `toml:"negative_threshold"`
	OpenAI            OpenAIConfig `toml:"openai"`
}

// OpenAIConfig configures the chat-completion classifier.
type OpenAIConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
	Timeout string `toml:"timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Primary           string
	PositiveThreshold string
	NegativeThreshold string
	OpenAI            OpenAIEnv
}

// OpenAIEnv lists environment variable names for OpenAIConfig.
// APIKey is checked in order and the first non-empty value wins.
type OpenAIEnv struct {
	APIKey  []string
	BaseURL string
	Model   string
	Timeout string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *OpenAIConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
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
	if overlay.Primary != "" {
		c.Primary = overlay.Primary
	}
	if overlay.PositiveThreshold != 0 {
		c.PositiveThreshold = overlay.PositiveThreshold
	}
	if overlay.NegativeThreshold != 0 {
		c.NegativeThreshold = overlay.NegativeThreshold
	}
	if overlay.OpenAI.APIKey != "" {
		c.OpenAI.APIKey = overlay.OpenAI.APIKey
	}
	if overlay.OpenAI.BaseURL != "" {
		c.OpenAI.BaseURL = overlay.OpenAI.BaseURL
	}
	if overlay.OpenAI.Model != "" {
		c.OpenAI.Model = overlay.OpenAI.Model
	}
	if overlay.OpenAI.Timeout != "" {
		c.OpenAI.Timeout = overlay.OpenAI.Timeout
	}
}

func (c *Config) loadDefaults() {
	if c.Primary == "" {
		c.Primary = ModelVader
	}
	if c.PositiveThreshold == 0 {
		c.PositiveThreshold = 0.05
	}
	if c.NegativeThreshold == 0 {
		c.NegativeThreshold = -0.05
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
	if c.OpenAI.Timeout == "" {
		c.OpenAI.Timeout = "10s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Primary != "" {
		if v := os.Getenv(env.Primary); v != "" {
			c.Primary = v
		}
	}
	if env.PositiveThreshold != "" {
		if v := os.Getenv(env.PositiveThreshold); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				c.PositiveThreshold = f
			}
		}
	}
	if env.NegativeThreshold != "" {
		if v := os.Getenv(env.NegativeThreshold); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				c.NegativeThreshold = f
			}
		}
	}
	for _, name := range env.OpenAI.APIKey {
		if v := os.Getenv(name); v != "" {
			c.OpenAI.APIKey = v
			break
		}
	}
	if env.OpenAI.BaseURL != "" {
		if v := os.Getenv(env.OpenAI.BaseURL); v != "" {
			c.OpenAI.BaseURL = v
		}
	}
	if env.OpenAI.Model != "" {
		if v := os.Getenv(env.OpenAI.Model); v != "" {
			c.OpenAI.Model = v
		}
	}
	if env.OpenAI.Timeout != "" {
		if v := os.Getenv(env.OpenAI.Timeout); v != "" {
			c.OpenAI.Timeout = v
		}
	}
}

func (c *Config) validate() error {
	switch c.Primary {
	case ModelVader, ModelOpenAI, ModelKeyword:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownModel, c.Primary)
	}
	if c.PositiveThreshold <= c.NegativeThreshold {
		return fmt.Errorf("positive_threshold must exceed negative_threshold")
	}
	if c.PositiveThreshold > 1 || c.NegativeThreshold < -1 {
		return fmt.Errorf("thresholds must lie within [-1, 1]")
	}
	if _, err := time.ParseDuration(c.OpenAI.Timeout); err != nil {
		return fmt.Errorf("invalid openai timeout: %w", err)
	}
	return nil
}
