// Command dashboardd serves the incident dashboard API: it loads the arrest
// CSV once, memoizes it, and exposes the filtered views, summary counters,
// and filter options as JSON alongside health and metrics endpoints.
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

	"github.com/couchcryptid/incident-insights/internal/adapter/httpapi"
	"github.com/couchcryptid/incident-insights/internal/config"
	"github.com/couchcryptid/incident-insights/internal/ingest"
	"github.com/couchcryptid/incident-insights/internal/observability"
	"github.com/couchcryptid/incident-insights/internal/pipeline"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env wins

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	loader := ingest.NewLoader(logger, metrics)
	store := ingest.NewStore(loader, cfg.DataFile, logger, metrics)
	pipe := pipeline.New(logger, metrics)

	// Warm the cache so the first request doesn't pay the parse cost. A
	// missing file is not fatal here: /readyz stays unready until the file
	// appears and the caller can provide it later.
	if _, err := store.Dataset(); err != nil {
		logger.Warn("initial dataset load failed", "error", err, "source", cfg.DataFile)
	}

	srv := httpapi.NewServer(cfg.HTTPAddr, store, store, pipe, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
