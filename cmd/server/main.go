package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/karangattu/csv-anonymizer/internal/config"
	"github.com/karangattu/csv-anonymizer/internal/core"
	"github.com/karangattu/csv-anonymizer/internal/ingest"
	"github.com/karangattu/csv-anonymizer/internal/logging"
	"github.com/karangattu/csv-anonymizer/internal/store"
	"github.com/karangattu/csv-anonymizer/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"upload_dir", cfg.Upload.Dir,
		"upload_ttl", cfg.Upload.TTL,
		"store_driver", cfg.Store.Driver,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	ctx := context.Background()

	// Select the handle registry backend
	var st store.Store
	switch cfg.Store.Driver {
	case "redis":
		rs, err := store.Connect(ctx, cfg.Store.RedisURL, cfg.Upload.TTL)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer rs.Close()
		st = rs
		slog.Info("using redis handle registry")
	default:
		st = store.NewMemoryStore()
		slog.Info("using in-memory handle registry")
	}

	// Create service with default detection strategies
	service, err := core.NewService(st, ingest.NewReader(nil, nil), cfg.Upload.Dir)
	if err != nil {
		slog.Error("failed to create service", "error", err)
		os.Exit(1)
	}

	// Create server with config
	server := web.NewServer(service, cfg)

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())

	// Start the TTL sweeper so abandoned uploads get cleaned up
	go service.StartSweeper(jobCtx, cfg.Upload.TTL, cfg.Upload.SweepInterval)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		// Stop background jobs
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	// Start server (uses addr from config internally)
	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
