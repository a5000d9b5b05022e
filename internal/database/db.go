// Package database provides the user registry and per-channel caption store,
// backed by SQLite (sqlx + golang-migrate) or MongoDB.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	"github.com/edgard/capbot/migrations"

	_ "modernc.org/sqlite" //revive:disable:blank-imports
)

// sqlitePragmas run once on the single pooled connection.
var sqlitePragmas = []string{
	"PRAGMA busy_timeout = 5000",
	"PRAGMA foreign_keys = ON",
}

// OpenSQLite connects to the SQLite file at path, or an in-memory database
// for ":memory:", and brings the schema up to date.
func OpenSQLite(path string, logger *slog.Logger) (*sqlx.DB, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	log := logger.With("component", "sqlite", "path", path)

	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// One connection: SQLite serialises writers and ":memory:" is per connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range sqlitePragmas {
		if _, err := db.Exec(pragma); err != nil {
			closeQuietly(db, log)
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if err := migrateUp(db.DB, log); err != nil {
		closeQuietly(db, log)
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	log.Info("Database connected and migrations applied successfully")
	return db, nil
}

func closeQuietly(db *sqlx.DB, log *slog.Logger) {
	if err := db.Close(); err != nil {
		log.Error("Error closing database after setup failure", "error", err)
	}
}

// migrateUp applies the embedded migrations. An up-to-date schema is not an error.
func migrateUp(db *sql.DB, log *slog.Logger) error {
	if db == nil {
		return errors.New("database connection is nil, cannot apply migrations")
	}
	startTime := time.Now()

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to read embedded migrations: %w", err)
	}
	target, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", target)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		log.Debug("Schema already up to date")
		return nil
	case err != nil:
		return err
	}

	version, dirty, verr := m.Version()
	if verr != nil {
		log.Warn("Could not read schema version", "error", verr)
	}
	log.Info("Database migrations applied", "version", version, "dirty", dirty, "duration", time.Since(startTime))
	return nil
}
