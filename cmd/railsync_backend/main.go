package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/luminapay/railsync/internal/adapters/accounting"
	"github.com/luminapay/railsync/internal/adapters/rates"
	"github.com/luminapay/railsync/internal/core/ports/gateways"
	"github.com/luminapay/railsync/internal/core/services"
	"github.com/luminapay/railsync/internal/handlers"
	"github.com/luminapay/railsync/internal/middleware"
	"github.com/luminapay/railsync/internal/platform/ratecache"
	"github.com/luminapay/railsync/internal/repositories/database/pgsql"
	"github.com/luminapay/railsync/internal/worker"
	"github.com/luminapay/railsync/pkg/config"
	"github.com/luminapay/railsync/pkg/database"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const providerTimeout = 10 * time.Second

// @title RailSync API
// @version 1.0
// @description Settlement reconciliation and accounting sync engine.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	tolerance, err := decimal.NewFromString(cfg.ReconcileTolerance)
	if err != nil {
		logger.Error("Invalid RECONCILE_TOLERANCE", slog.String("value", cfg.ReconcileTolerance), slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Rate cache is built once here and injected; it owns a sweep goroutine.
	rateCache := ratecache.New(cfg.RateCacheSize, cfg.RateCacheSweep)
	defer rateCache.Close()

	// Primary price feed plus optional backup, tried in order.
	providers := []gateways.RateProvider{
		rates.NewPriceFeedClient("pricefeed-primary", cfg.PriceFeedURL, cfg.PriceFeedAPIKey, providerTimeout),
	}
	if cfg.BackupFeedURL != "" {
		providers = append(providers, rates.NewPriceFeedClient("pricefeed-backup", cfg.BackupFeedURL, "", providerTimeout))
	}
	aggregator := rates.NewAggregator(logger, providers...)

	accountingClient := accounting.NewClient(cfg.AccountingURL, cfg.AccountingID, cfg.AccountingToken, providerTimeout)

	repos := pgsql.NewRepositoryProvider(dbPool)
	container := services.NewContainer(services.ContainerDeps{
		Repos:           repos,
		RateCache:       rateCache,
		RateProvider:    aggregator,
		Accounting:      accountingClient,
		VolatileRateTTL: cfg.VolatileRateTTL,
		PeggedRateTTL:   cfg.PeggedRateTTL,
		Tolerance:       tolerance,
		WorkerBatch:     cfg.WorkerBatch,
		InterJobDelay:   cfg.AccountingJitter,
	})

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, rate limiting)
	apiRate, err := limiter.NewRateFromFormatted(cfg.APIRateLimit)
	if err != nil {
		logger.Error("Invalid API_RATE_LIMIT", slog.String("value", cfg.APIRateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	apiLimiter := limiter.New(memory.NewStore(), apiRate)

	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		cors.Default(),
		middleware.RateLimit(apiLimiter),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container)

	// Run the pull-based sync worker alongside the HTTP server.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	proc := worker.NewProcessor(container.SyncQueue, cfg.WorkerInterval, logger)
	go proc.Run(ctx)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received, draining...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shut down", slog.String("error", err.Error()))
	}
	logger.Info("Server stopped.")
}

// runMigrations applies all pending schema migrations using a temporary
// database/sql connection over the pgx stdlib driver.
func runMigrations(logger *slog.Logger, databaseURL string) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
