package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"gradia/internal/auth"
	"gradia/internal/config"
	"gradia/internal/database"
	"gradia/internal/database/migration"
	"gradia/internal/events"
	handlers "gradia/internal/http/handler"
	"gradia/internal/http/middleware"
	"gradia/internal/logging"
	"gradia/internal/otel"
	"gradia/internal/repository/postgres"
	"gradia/internal/service"
	"gradia/internal/storage"
)

// @title Gradia Finance API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := cfg.Location()
	logger := logging.New(os.Stdout, cfg.LogLevel, loc)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, loc, logger); err != nil {
		logger.Error("server_exit", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.AppConfig, loc *time.Location, logger *slog.Logger) error {
	shutdownTracing, err := otel.Init(ctx, "gradia-api", logger)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

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

	verifier, err := auth.NewFirebaseVerifier(ctx, cfg.Firebase)
	if err != nil {
		return err
	}

	objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		return err
	}

	var publisher events.Publisher = events.Noop{}
	if cfg.AMQP.URL != "" {
		client, err := events.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue, logging.Component(logger, "events"))
		if err != nil {
			return err
		}
		defer client.Close()
		publisher = client
	} else {
		logger.Info("summary_publisher_disabled", "reason", "AMQP_URL not set")
	}

	// Repositories
	tx := postgres.NewTxManager(db)
	users := postgres.NewUserPostgres(db)
	periods := postgres.NewPeriodPostgres(db)
	cycles := postgres.NewCyclePostgres(db)
	categories := postgres.NewCategoryPostgres(db)
	records := postgres.NewRecordPostgres(db)
	attachments := postgres.NewAttachmentPostgres(db)
	summaries := postgres.NewSummaryPostgres(db)

	// Services
	svcLogger := logging.Component(logger, "service")
	periodSvc := service.NewPeriodService(tx, periods, cycles, func() time.Time { return time.Now().In(loc) })
	categorySvc := service.NewCategoryService(tx, categories, records, publisher, svcLogger)
	attachmentSvc := service.NewAttachmentService(objStore, records, attachments, cfg.MinIO.PresignExpiry())
	deps := handlers.Deps{
		DB:          db,
		Verifier:    verifier,
		Users:       service.NewUserService(users, periodSvc, categorySvc, svcLogger),
		Periods:     periodSvc,
		Cycles:      service.NewCycleService(periods, cycles),
		Categories:  categorySvc,
		Records:     service.NewRecordService(tx, records, categories, cycles, attachmentSvc, publisher, svcLogger),
		Attachments: attachmentSvc,
		Reports:     service.NewReportService(periods, cycles, categories, cfg.SummaryConcurrency),
		Summaries:   service.NewSummaryService(tx, periods, cycles, summaries, cfg.SummaryConcurrency, svcLogger),
		Logger:      logger,
		PublicHost:  cfg.AppHost,
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}
	deps.Metrics = reg

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    cfg.BodyLimitBytes,
	})

	// RequestID first so every later middleware sees the id.
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger(logger))
	app.Use(metrics.Handler())

	handlers.RegisterRoutes(app, deps)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_started", "addr", ":"+cfg.Port)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server_shutdown", "reason", ctx.Err())
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(sctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
