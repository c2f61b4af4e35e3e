package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
)

// RunMigrations applies all pending migrations from source, e.g. "file://migrations".
// A bare directory path is treated as a file source.
func RunMigrations(databaseURL, source string, logger zerolog.Logger) error {
	m, err := newMigrate(databaseURL, source)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info().Msg("database migrations: no change")
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info().Msg("database migrations: applied successfully")
	return nil
}

// RunMigrationsDown rolls back the last migration.
func RunMigrationsDown(databaseURL, source string, logger zerolog.Logger) error {
	m, err := newMigrate(databaseURL, source)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Steps(-1); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}

	logger.Info().Msg("database migrations: rolled back successfully")
	return nil
}

func newMigrate(databaseURL, source string) (*migrate.Migrate, error) {
	m, err := migrate.New(SourceURL(source), databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// SourceURL prefixes source with file:// unless it already names a scheme.
func SourceURL(source string) string {
	if strings.Contains(source, "://") {
		return source
	}
	return "file://" + source
}
