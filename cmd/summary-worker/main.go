// Command summary-worker rebuilds materialized cycle totals whenever the API
// announces a change on the summary refresh queue.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"gradia/internal/config"
	"gradia/internal/database"
	"gradia/internal/events"
	"gradia/internal/logging"
	"gradia/internal/otel"
	"gradia/internal/repository/postgres"
	"gradia/internal/service"
)

func main() {
	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.Location())
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("summary_worker_exit", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) error {
	if cfg.AMQP.URL == "" {
		return errors.New("AMQP_URL is required")
	}

	shutdownTracing, err := otel.Init(ctx, "gradia-summary-worker", logger)
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	client, err := events.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue, logging.Component(logger, "events"))
	if err != nil {
		return err
	}
	defer client.Close()

	summaries := service.NewSummaryService(
		postgres.NewTxManager(db),
		postgres.NewPeriodPostgres(db),
		postgres.NewCyclePostgres(db),
		postgres.NewSummaryPostgres(db),
		cfg.SummaryConcurrency,
		logging.Component(logger, "summary"),
	)

	return client.Consume(ctx, func(ctx context.Context, msg *events.SummaryRefresh) error {
		if err := summaries.RefreshCycle(ctx, msg.CycleID); err != nil {
			return err
		}
		logger.InfoContext(ctx, "summary_refreshed", "cycle_id", msg.CycleID, "reason", msg.Reason)
		return nil
	})
}
