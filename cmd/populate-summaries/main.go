// Command populate-summaries rebuilds the materialized totals of every cycle.
// Run it once after deploying the summaries table or to repair drift.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"gradia/internal/config"
	"gradia/internal/database"
	"gradia/internal/database/migration"
	"gradia/internal/logging"
	"gradia/internal/repository/postgres"
	"gradia/internal/service"
)

func main() {
	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.Location())

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("populate_summaries_failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) error {
	start := time.Now()

	dsn, err := database.BuildPostgresDSN(cfg.Database)
	if err != nil {
		return err
	}
	if err := migration.Up(ctx, database.DriverName, dsn, cfg.Database.Host, logger); err != nil {
		return err
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	summaries := service.NewSummaryService(
		postgres.NewTxManager(db),
		postgres.NewPeriodPostgres(db),
		postgres.NewCyclePostgres(db),
		postgres.NewSummaryPostgres(db),
		cfg.SummaryConcurrency,
		logging.Component(logger, "summary"),
	)

	n, err := summaries.RefreshAll(ctx)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "populate_summaries_done", "cycles", n, "duration_ms", time.Since(start).Milliseconds())
	return nil
}
