package migration

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

var sqlOpen = sql.Open

// Source returns the embedded migration files as a golang-migrate source.
func Source() (source.Driver, error) {
	return iofs.New(migrationsFS, "sql")
}

// Up applies every pending migration. It opens its own connection because
// closing a golang-migrate instance also closes the database it was given.
func Up(ctx context.Context, driverName, dsn, dbHost string, logger *slog.Logger) error {
	start := time.Now()
	log := logger.With("component", "database", "db_host", dbHost)

	log.InfoContext(ctx, "db_migration_start", "status", "in_progress")

	fail := func(step string, err error) error {
		log.ErrorContext(ctx, "db_migration_failed",
			"status", "error",
			"migration_step", step,
			"error_message", err.Error(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("%s: %w", step, err)
	}

	db, err := sqlOpen(driverName, dsn)
	if err != nil {
		return fail("open migration database", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fail("ping migration database", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		_ = db.Close()
		return fail("create postgres driver", err)
	}

	src, err := Source()
	if err != nil {
		_ = db.Close()
		return fail("create iofs source", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		_ = db.Close()
		return fail("create migrate instance", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.InfoContext(ctx, "db_migration_skip",
				"status", "success",
				"msg_detail", "schema already up to date",
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return nil
		}
		return fail("run migrations", err)
	}

	version, _, _ := m.Version()
	log.InfoContext(ctx, "db_migration_success",
		"status", "success",
		"schema_version", version,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
