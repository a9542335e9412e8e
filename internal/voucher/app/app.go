package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/voucher/internal/voucher/http"
	"github.com/aussiebroadwan/voucher/internal/voucher/service"
	"github.com/aussiebroadwan/voucher/internal/voucher/store"
	"github.com/aussiebroadwan/voucher/internal/voucher/store/drivers/file"
	"github.com/aussiebroadwan/voucher/internal/voucher/store/drivers/sqlite"
	"github.com/aussiebroadwan/voucher/pkg/cachex"
	"github.com/aussiebroadwan/voucher/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the voucher service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db    store.Store
	cache *cachex.Cache

	// Services
	redemptionService   *service.RedemptionService
	reportService       *service.ReportService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "voucher-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initStore(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	if len(cfg.ClientTokens) == 0 {
		app.logger.Warn("no client tokens configured, issue/redeem endpoints will reject all requests")
	}

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start housekeeping service
	app.housekeepingService.Start()

	app.logger.Info("voucher service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"store_driver", app.cfg.StoreDriver,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down voucher service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the housekeeping service
	app.housekeepingService.Stop()

	// Close the dataset store
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing store", "error", err)
		return err
	}

	app.logger.Info("voucher service stopped")
	return nil
}

// initStore initializes the configured dataset store driver
func (app *Application) initStore() error {
	switch app.cfg.StoreDriver {
	case "file":
		st, err := file.NewStore(app.cfg.DataFile, app.logger)
		if err != nil {
			return fmt.Errorf("failed to initialize file store: %w", err)
		}
		app.db = st

	case "sqlite":
		dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
		st, err := sqlite.NewStore(dsn)
		if err != nil {
			return fmt.Errorf("failed to initialize sqlite store: %w", err)
		}
		if err := st.ApplyMigrations(); err != nil {
			_ = st.Close()
			return fmt.Errorf("failed to apply database migrations: %w", err)
		}
		app.db = st
		app.logger.Info("database migrations applied successfully")

	default:
		return fmt.Errorf("unknown store driver %q (want file or sqlite)", app.cfg.StoreDriver)
	}

	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.cache = cachex.New()

	app.redemptionService = &service.RedemptionService{Store: app.db}

	app.reportService = &service.ReportService{
		Redemptions: app.redemptionService,
		Cache:       app.cache,
		TTL:         app.cfg.ReportTTL,
		AllowStale:  app.cfg.ReportAllowStale,
	}

	// Mutations drop the cached report so dashboards converge quickly rather
	// than waiting out the TTL.
	app.redemptionService.OnMutate = app.reportService.Invalidate

	app.housekeepingService = service.NewHousekeepingService(
		app.redemptionService,
		app.cache,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		BuildVersion,
		app.db,
		app.logger,
		app.cfg.ClientTokens,
		app.cfg.AdminPasswordHash,
	)

	// Wire services to router
	router.RedemptionService = app.redemptionService
	router.ReportService = app.reportService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
