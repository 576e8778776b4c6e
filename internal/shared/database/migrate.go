package database

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrator applies the embedded schema migrations. It holds its own
// connection, opened from a postgres:// URL, so closing it never touches the
// application's pool.
type Migrator struct {
	m      *migrate.Migrate
	logger *slog.Logger
}

func NewMigrator(databaseURL string) (*Migrator, error) {
	logger := slog.With("component", "migrations")

	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}

	return &Migrator{m: m, logger: logger}, nil
}

// Up applies every pending migration. It is a no-op on an up-to-date schema.
func (mg *Migrator) Up() error {
	logger := mg.logger.With("operation", "up")
	logger.Info("Starting database migrations")

	err := mg.m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("No migrations to apply (database up-to-date)")
		return nil
	}
	if err != nil {
		logger.Error("Failed to run migrations", "error", err)
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, _, _ := mg.Version()
	logger.Info("All migrations completed successfully", "version", version)
	return nil
}

// Down rolls back steps migrations, or all of them when steps <= 0.
func (mg *Migrator) Down(steps int) error {
	logger := mg.logger.With("operation", "down", "steps", steps)
	logger.Info("Rolling back database migrations")

	var err error
	if steps <= 0 {
		err = mg.m.Down()
	} else {
		err = mg.m.Steps(-steps)
	}
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("No migrations to roll back")
		return nil
	}
	if err != nil {
		logger.Error("Failed to roll back migrations", "error", err)
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}

	logger.Info("Rollback completed successfully")
	return nil
}

// To migrates up or down to exactly version.
func (mg *Migrator) To(version uint) error {
	logger := mg.logger.With("operation", "goto", "target_version", version)
	logger.Info("Migrating to version")

	err := mg.m.Migrate(version)
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("Already at target version")
		return nil
	}
	if err != nil {
		logger.Error("Failed to migrate to version", "error", err)
		return fmt.Errorf("failed to migrate to version %d: %w", version, err)
	}

	logger.Info("Migration to version completed successfully")
	return nil
}

// Version reports the applied schema version; 0 means nothing is applied.
func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read migration version: %w", err)
	}
	return version, dirty, nil
}

func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	if srcErr != nil {
		mg.logger.Warn("Failed to close migration source", "error", srcErr)
	}
	if dbErr != nil {
		mg.logger.Warn("Failed to close migration database", "error", dbErr)
	}
	return errors.Join(srcErr, dbErr)
}
