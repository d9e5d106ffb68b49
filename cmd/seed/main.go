// Command seed loads the bundled collection into the products table.
// It applies migrations first and leaves a non-empty table alone unless
// -force is given.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/VedantYeola/Wear-Story/internal/catalog"
	"github.com/VedantYeola/Wear-Story/internal/config"
	"github.com/VedantYeola/Wear-Story/internal/repository/postgres"
	"github.com/VedantYeola/Wear-Story/pkg/database"
	"github.com/VedantYeola/Wear-Story/pkg/logger"
)

func main() {
	force := flag.Bool("force", false, "insert the collection even if products already exist")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log := logger.New("seed", cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := run(ctx, cfg, log, *force); err != nil {
		log.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger, force bool) error {
	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := database.Migrate(ctx, cfg.Postgres.URL, postgres.Migrations, postgres.MigrationsDir, log); err != nil {
		return err
	}

	repo := postgres.NewItemRepository(pool)
	existing, err := repo.ListItems(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 && !force {
		log.Info("products table not empty, skipping", slog.Int("count", len(existing)))
		return nil
	}

	items := catalog.Fallback()
	for i := range items {
		item := items[i]
		if err := repo.Create(ctx, &item); err != nil {
			return err
		}
		log.Debug("seeded item", slog.Int64("id", item.ID), slog.String("name", item.Name))
	}
	log.Info("seed complete", slog.Int("inserted", len(items)))
	return nil
}
