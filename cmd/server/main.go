/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the workforce engine HTTP server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (YAML + environment), apply flag overrides
  2. Build the logger
  3. Initialize SQLite store
  4. Create API handler with every service
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (overrides server.port / SERVER_PORT)
  -db      SQLite database path (overrides database.path / DATABASE_PATH)
           Use ":memory:" for in-memory database
  -seed    Load a demo scenario at startup (e.g. team-month)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (server.shutdown_timeout)
  3. Close database connection
  4. Exit

ENVIRONMENT:
  CONFIG_PATH selects the YAML file. See config/config.go for every variable.

SEE ALSO:
  - api/server.go: Router configuration
  - config/loader.go: Configuration loading
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/warp/workforce-engine/api"
	"github.com/warp/workforce-engine/config"
	"github.com/warp/workforce-engine/payroll"
	"github.com/warp/workforce-engine/store/sqlite"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Flags
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	seed := flag.String("seed", "", "demo scenario to load at startup")
	flag.Parse()

	cfg, err := config.Load(config.WithPort(*port), config.WithDatabasePath(*dbPath))
	if err != nil {
		return err
	}

	logger := config.NewLogger(cfg.Log)

	// Initialize store
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer store.Close()

	allocations, err := cfg.Leave.ByType()
	if err != nil {
		return err
	}

	// Initialize handler
	handler := api.NewHandler(store, api.Options{
		Payroll: payroll.Config{
			HourlyRate:         cfg.Payroll.Rate(),
			OvertimeMultiplier: cfg.Payroll.Multiplier(),
		},
		Allocations: allocations,
		Logger:      logger,
	})

	if *seed != "" {
		loaded, err := api.LoadScenario(context.Background(), store, *seed, logger)
		if err != nil {
			return fmt.Errorf("seed %s: %w", *seed, err)
		}
		logger.Info("scenario", slog.String("scenario_id", *seed), slog.Bool("loaded", loaded))
	}

	// Create server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.NewRouter(handler, cfg.CORS),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			slog.String("addr", server.Addr),
			slog.String("db", cfg.Database.Path),
			slog.String("hourly_rate", decimal.NewFromFloat(cfg.Payroll.HourlyRate).StringFixed(2)))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-quit:
		logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
