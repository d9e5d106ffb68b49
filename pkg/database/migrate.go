package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Migrate applies every pending up migration found under dir in fsys.
// Files follow golang-migrate naming: 0001_name.up.sql / 0001_name.down.sql.
func Migrate(ctx context.Context, dsn string, fsys fs.FS, dir string, logger *slog.Logger) error {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return fmt.Errorf("open migration source: %w", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open sql db: %w", err)
	}
	defer db.Close()

	if err := retry(ctx, logger, "ping postgres for migrations", func() error {
		return db.PingContext(ctx)
	}); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("init migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			if logger != nil {
				logger.Info("schema up to date")
			}
			return nil
		}
		return fmt.Errorf("migrate up: %w", err)
	}

	if logger != nil {
		if version, dirty, verr := m.Version(); verr == nil {
			logger.Info("migrations applied", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
		}
	}
	return nil
}
