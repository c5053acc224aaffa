// Package main is the entry point for the Boi Gordo feedlot API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/boi-gordo/backend/config"
	"github.com/boi-gordo/backend/internal/infra/db"
	"github.com/boi-gordo/backend/internal/infra/dependency"
	"github.com/boi-gordo/backend/internal/integration/cache"
	"github.com/boi-gordo/backend/internal/integration/persistence"
)

const (
	shutdownTimeout        = 10 * time.Second
	limiterCleanupInterval = 5 * time.Minute
)

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()

	slog.Info("Starting Boi Gordo API",
		"environment", cfg.Server.Environment,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	if err := run(cfg); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("Server exited properly")
}

func run(cfg *config.Config) error {
	database, err := db.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := persistence.Migrate(database.DB()); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		slog.Info("Database migrations completed successfully")
	}

	reportCache, err := cache.NewReportCache(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect report cache: %w", err)
	}

	injector, err := dependency.NewInjector(cfg, database.DB(), reportCache)
	if err != nil {
		return fmt.Errorf("wire dependencies: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Scheduler.Enabled {
		if err := injector.Scheduler.Start(); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		defer injector.Scheduler.Stop()
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      injector.Router.Setup(cfg.Server.Environment),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if injector.Worker != nil {
		g.Go(func() error {
			injector.Worker.Start(gctx)
			return nil
		})
	}

	g.Go(func() error {
		ticker := time.NewTicker(limiterCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				injector.Limiter.Cleanup()
			}
		}
	})

	return g.Wait()
}
