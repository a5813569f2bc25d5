// Package schema embeds the analyses table migrations for each supported
// database driver and applies them with golang-migrate.
package schema

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"

	"github.com/JaimeStill/pulse/pkg/database"
)

//go:embed sqlite/*.sql postgres/*.sql
var migrations embed.FS

// Source returns the embedded migration source for driver.
func Source(driver string) (source.Driver, error) {
	switch driver {
	case database.DriverSQLite, database.DriverPostgres:
		return iofs.New(migrations, driver)
	default:
		return nil, fmt.Errorf("%w %q: no migrations", database.ErrUnsupportedDriver, driver)
	}
}

// Migrator opens a migrator bound to the database described by cfg.
// Callers must Close it.
func Migrator(cfg *database.Config) (*migrate.Migrate, error) {
	src, err := Source(cfg.Driver)
	if err != nil {
		return nil, err
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, cfg.MigrateURL())
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}

// Up applies every pending migration. An already current schema is not an error.
func Up(cfg *database.Config) error {
	m, err := Migrator(cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
