// Command publish loads and validates an incident CSV, then publishes every
// retained record to the configured Kafka sink topic in batches. It is a
// one-shot exporter for downstream consumers, not part of the interactive
// dashboard loop.
//
// Usage:
//
//	go run ./cmd/publish -file data/arrests.csv
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	kafkaadapter "github.com/couchcryptid/incident-insights/internal/adapter/kafka"
	"github.com/couchcryptid/incident-insights/internal/config"
	"github.com/couchcryptid/incident-insights/internal/ingest"
	"github.com/couchcryptid/incident-insights/internal/observability"
)

func main() {
	_ = godotenv.Load()

	file := flag.String("file", "", "incident CSV to publish (defaults to DATA_FILE)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *file != "" {
		cfg.DataFile = *file
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	if err := run(cfg, logger, metrics); err != nil {
		logger.Error("publish failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader := ingest.NewLoader(logger, metrics)
	ds, err := loader.Load(cfg.DataFile)
	if err != nil {
		return err
	}
	for _, rowErr := range ds.Skipped {
		logger.Warn("row skipped", "error", rowErr)
	}

	writer := kafkaadapter.NewWriter(cfg, logger)
	defer func() {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}()

	published := 0
	for start := 0; start < ds.Len(); start += cfg.PublishBatch {
		end := min(start+cfg.PublishBatch, ds.Len())
		if err := writer.PublishBatch(ctx, ds.Records[start:end], ds.LoadedAt); err != nil {
			return err
		}
		published += end - start
		logger.Info("batch published", "published", published, "total", ds.Len())
	}

	logger.Info("publish complete",
		"dataset_id", ds.ID,
		"published", published,
		"skipped", len(ds.Skipped),
		"no_geolocation", ds.DroppedNoGeo,
		"topic", cfg.KafkaSinkTopic,
	)
	return nil
}
