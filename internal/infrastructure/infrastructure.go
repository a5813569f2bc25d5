// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, classifier) that domain systems require.
package infrastructure

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JaimeStill/pulse/internal/config"
	"github.com/JaimeStill/pulse/internal/schema"
	"github.com/JaimeStill/pulse/internal/sentiment"
	"github.com/JaimeStill/pulse/pkg/database"
	"github.com/JaimeStill/pulse/pkg/lifecycle"
	"github.com/JaimeStill/pulse/pkg/logging"
)

// Infrastructure holds the core systems required by all domain modules.
type Infrastructure struct {
	Lifecycle  *lifecycle.Coordinator
	Logger     *slog.Logger
	Database   database.System
	Classifier sentiment.Classifier

	dbConfig *database.Config
}

// New creates an Infrastructure from the application configuration, logging to stderr.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter is New with an explicit log destination.
func NewWithWriter(cfg *config.Config, w io.Writer) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := logging.New(&cfg.Logging, w)

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle:  lc,
		Logger:     logger,
		Database:   db,
		Classifier: sentiment.New(&cfg.Classifier, logger),
		dbConfig:   &cfg.Database,
	}, nil
}

// Start applies pending schema migrations and registers the database with the
// lifecycle coordinator. Migrations complete before Start returns.
func (i *Infrastructure) Start() error {
	if err := schema.Up(i.dbConfig); err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}
	i.Logger.Info("schema up to date", "driver", i.dbConfig.Driver)

	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	return nil
}
