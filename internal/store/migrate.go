package store

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/vino9org/git-indexer/schema"
)

//go:embed migrations
var migrationsFS embed.FS

// MigrateStore runs schema migrations against the index.
// - If targetVersion < 0, it migrates to the latest version.
// - If targetVersion == 0, it rolls back all migrations (to initial state).
// - If targetVersion > 0, it migrates to the specified version.
//
// The in-memory SQLite store is restored from snapshot first and flushed back afterwards.
func MigrateStore(ctx context.Context, backend schema.DatabaseBackend, connStr, snapshot string, targetVersion int) error {
	s, err := openStore(ctx, backend, connStr, snapshot)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	from, to, err := s.migrateTo(targetVersion)
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		fmt.Printf("No migration needed. Database is already at version %d\n", from)
	case err != nil:
		return err
	case targetVersion == 0:
		fmt.Printf("Successfully rolled back from version %d to version 0\n", from)
	default:
		fmt.Printf("Successfully migrated from version %d to version %d\n", from, to)
	}

	if s.inMemory && snapshot != "" {
		return s.Flush(ctx, snapshot)
	}
	return nil
}

// migrateTo moves the schema to targetVersion and returns the versions before
// and after. migrate.ErrNoChange is returned as is for callers that report it,
// except for the implicit migrate-to-latest done when the store opens.
func (s *Store) migrateTo(targetVersion int) (uint, uint, error) {
	m, err := s.newMigrate()
	if err != nil {
		return 0, 0, err
	}
	// m is not closed: closing it would close the shared *sql.DB.

	currentVersion, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, 0, fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return currentVersion, currentVersion, fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", currentVersion)
	}

	switch {
	case targetVersion < 0:
		err = m.Up()
		if errors.Is(err, migrate.ErrNoChange) {
			return currentVersion, currentVersion, nil
		}
		if err != nil {
			return currentVersion, currentVersion, fmt.Errorf("failed to migrate to latest version: %w", err)
		}
	case targetVersion == 0:
		err = m.Down()
		if errors.Is(err, migrate.ErrNoChange) {
			return currentVersion, 0, err
		}
		if err != nil {
			return currentVersion, currentVersion, fmt.Errorf("failed to roll back to version 0: %w", err)
		}
		return currentVersion, 0, nil
	default:
		err = m.Migrate(uint(targetVersion))
		if errors.Is(err, migrate.ErrNoChange) {
			return currentVersion, currentVersion, err
		}
		if err != nil {
			return currentVersion, currentVersion, fmt.Errorf("failed to migrate to version %d: %w", targetVersion, err)
		}
	}

	newVersion, _, err := m.Version()
	if err != nil {
		return currentVersion, 0, fmt.Errorf("failed to read migrated version: %w", err)
	}
	return currentVersion, newVersion, nil
}

// newMigrate creates a migrate instance over the store connection and the
// embedded migrations of its backend.
func (s *Store) newMigrate() (*migrate.Migrate, error) {
	var driver database.Driver
	var err error
	var dir string

	switch s.backend {
	case schema.SQLiteBackend:
		dir = "migrations/sqlite"
		driver, err = sqlite.WithInstance(s.db, &sqlite.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite migrate driver: %w", err)
		}
	case schema.MySQLBackend:
		dir = "migrations/mysql"
		driver, err = mysql.WithInstance(s.db, &mysql.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to create MySQL migrate driver: %w", err)
		}
	case schema.PostgreSQLBackend:
		dir = "migrations/postgres"
		driver, err = postgres.WithInstance(s.db, &postgres.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL migrate driver: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported backend: %s", s.backend)
	}

	migrationFS, err := fs.Sub(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access migrations directory: %w", err)
	}
	sourceDriver, err := iofs.New(migrationFS, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "git-indexer", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// schemaVersion returns the applied migration version, 0 when none is applied.
func (s *Store) schemaVersion() (uint, error) {
	m, err := s.newMigrate()
	if err != nil {
		return 0, err
	}
	version, _, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	return version, err
}
