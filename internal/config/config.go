// Package config loads Pulse configuration from TOML files, .env files, and
// PULSE_* environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/subosito/gotenv"

	"github.com/JaimeStill/pulse/internal/sentiment"
	"github.com/JaimeStill/pulse/pkg/database"
	"github.com/JaimeStill/pulse/pkg/logging"
	"github.com/JaimeStill/pulse/pkg/openapi"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"
	BaseEnvFile          = ".env"
	OverlayEnvPattern    = ".env.%s"

	EnvPulseEnv             = "PULSE_ENV"
	EnvPulseShutdownTimeout = "PULSE_SHUTDOWN_TIMEOUT"
	EnvPulseVersion         = "PULSE_VERSION"
)

var databaseEnv = &database.Env{
	Driver:          "PULSE_DB_DRIVER",
	Path:            "PULSE_DB_PATH",
	BusyTimeout:     "PULSE_DB_BUSY_TIMEOUT",
	Host:            "PULSE_DB_HOST",
	Port:            "PULSE_DB_PORT",
	Name:            "PULSE_DB_NAME",
	User:            "PULSE_DB_USER",
	Password:        "PULSE_DB_PASSWORD",
	SSLMode:         "PULSE_DB_SSL_MODE",
	MaxOpenConns:    "PULSE_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "PULSE_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "PULSE_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "PULSE_DB_CONN_TIMEOUT",
}

var loggingEnv = &logging.Env{
	Level:     "PULSE_LOG_LEVEL",
	Format:    "PULSE_LOG_FORMAT",
	AddSource: "PULSE_LOG_ADD_SOURCE",
}

var classifierEnv = &sentiment.Env{
	Primary:           "PULSE_CLASSIFIER_PRIMARY",
	PositiveThreshold: "PULSE_CLASSIFIER_POSITIVE_THRESHOLD",
	NegativeThreshold: "PULSE_CLASSIFIER_NEGATIVE_THRESHOLD",
	OpenAI: sentiment.OpenAIEnv{
		APIKey:  []string{"PULSE_OPENAI_API_KEY", "OPENAI_API_KEY"},
		BaseURL: "PULSE_OPENAI_BASE_URL",
		Model:   "PULSE_OPENAI_MODEL",
		Timeout: "PULSE_OPENAI_TIMEOUT",
	},
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "PULSE_OPENAPI_TITLE",
	Description: "PULSE_OPENAPI_DESCRIPTION",
}

// Config is the root configuration for the Pulse service.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	Database        database.Config  `toml:"database"`
	Logging         logging.Config   `toml:"logging"`
	Classifier      sentiment.Config `toml:"classifier"`
	API             APIConfig        `toml:"api"`
	OpenAPI         openapi.Config   `toml:"openapi"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns the PULSE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvPulseEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads .env files, the base config (if present), applies any environment
// overlay, and finalizes all values. If no config.toml exists, defaults and
// environment variables provide all configuration.
func Load() (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Logging.Merge(&overlay.Logging)
	c.Classifier.Merge(&overlay.Classifier)
	c.API.Merge(&overlay.API)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

// Finalize applies defaults, environment overrides, and validation to every section.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Logging.Finalize(loggingEnv); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Classifier.Finalize(classifierEnv); err != nil {
		return fmt.Errorf("classifier: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvPulseShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvPulseVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvPulseEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// .env.<env> is read before .env; gotenv never overrides a variable that is
// already set, so real environment variables win over both files.
func loadEnvFiles() error {
	var files []string
	if env := os.Getenv(EnvPulseEnv); env != "" {
		files = append(files, fmt.Sprintf(OverlayEnvPattern, env))
	}
	files = append(files, BaseEnvFile)

	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := gotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}
