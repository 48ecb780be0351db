package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"memoapi/docs"
	"memoapi/internal/bot"
	"memoapi/internal/config"
	"memoapi/internal/database"
	"memoapi/internal/database/migration"
	handlers "memoapi/internal/http/handler"
	"memoapi/internal/http/middleware"
	"memoapi/internal/logging"
	"memoapi/internal/otel"
	"memoapi/internal/repository/vault"
	"memoapi/internal/service"
	"memoapi/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title Memo API
// @version 1.0
// @description Markdown memo store with tag management.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) error {
	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	store, closeStore, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Initialize repository and services
	memoRepo := vault.NewMemoVault(store, cfg.Notes.Folder, logger, vault.WithMetrics(reg))
	memoSvc := service.NewMemoService(memoRepo, logger)
	tagSvc := service.NewTagService(memoSvc, logger)

	if err := memoSvc.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize notes folder: %w", err)
	}

	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("register http metrics: %w", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(logger))
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	opts := handlers.Options{
		DateFormat:   cfg.Notes.DateFormat,
		DisplayCount: cfg.Notes.DisplayCount,
		DefaultSort:  cfg.Notes.DefaultSort,
		Location:     time.Local,
	}
	handlers.RegisterRoutes(app, handlers.Deps{
		Health:  memoRepo,
		Memos:   memoSvc,
		Tags:    tagSvc,
		Options: opts,
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	if cfg.Telegram.Token != "" {
		api, err := bot.Connect(cfg.Telegram.Token)
		if err != nil {
			return err
		}
		b := bot.New(api, memoSvc, tagSvc, bot.Options{
			DateFormat:  cfg.Notes.DateFormat,
			DefaultSort: cfg.Notes.DefaultSort,
			Location:    time.Local,
		}, logger)
		go func() {
			if err := b.Run(ctx); err != nil {
				logger.Error("bot stopped", zap.Error(err))
			}
		}()
	}

	addr := cfg.AppHost + ":" + cfg.Port
	listenErr := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("event", "server_started"),
			zap.String("addr", addr),
			zap.String("storage_backend", cfg.Storage.Backend))
		listenErr <- app.Listen(addr)
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.String("event", "server_stopping"))
	return app.ShutdownWithTimeout(shutdownTimeout)
}

// openStorage connects the configured notes folder backend. The returned
// close func is always safe to call.
func openStorage(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (storage.Storage, func(), error) {
	noop := func() {}

	switch cfg.Storage.Backend {
	case config.BackendLocal:
		store, err := storage.NewLocal(cfg.Storage.Root)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open notes directory: %w", err)
		}
		return store, noop, nil

	case config.BackendMinIO:
		// Reusable S3-compatible object storage client (MinIO-supported)
		store, err := storage.NewMinIO(cfg.MinIO)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to initialize object storage: %w", err)
		}
		return store, noop, nil

	case config.BackendPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database, logger)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to connect to database: %w", err)
		}
		closeDB := func() { closeQuietly(db, logger) }
		if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
			closeDB()
			return nil, noop, fmt.Errorf("failed to migrate database: %w", err)
		}
		return storage.NewPostgres(db), closeDB, nil

	default:
		return nil, noop, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
	}
}

func closeQuietly(db *sql.DB, logger *zap.Logger) {
	if err := db.Close(); err != nil {
		logger.Warn("database close failed", zap.Error(err))
	}
}
