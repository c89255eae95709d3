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

	"github.com/seismoview/quake-catalog/internal/adapter/gsi"
	"github.com/seismoview/quake-catalog/internal/adapter/httpapi"
	kafkaadapter "github.com/seismoview/quake-catalog/internal/adapter/kafka"
	"github.com/seismoview/quake-catalog/internal/catalog"
	"github.com/seismoview/quake-catalog/internal/config"
	"github.com/seismoview/quake-catalog/internal/ingest"
	"github.com/seismoview/quake-catalog/internal/observability"
)

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	var source ingest.Source
	if cfg.DatasetPath != "" {
		source = gsi.NewFileSource(cfg.DatasetPath, logger)
		logger.Info("dataset source: file", "path", cfg.DatasetPath)
	} else {
		source = gsi.NewClient(cfg.DatasetURL, cfg.FetchTimeout, logger)
		logger.Info("dataset source: http", "url", cfg.DatasetURL)
	}

	cat := catalog.New(logger, metrics, cfg.SnapshotCacheSize)
	refresher := ingest.New(source, cat, logger, metrics, cfg.RefreshInterval)

	var reader *kafkaadapter.Reader
	if cfg.KafkaEnabled {
		reader = kafkaadapter.NewReader(cfg, refresher, logger)
		logger.Info("kafka refresh notifications enabled",
			"brokers", cfg.KafkaBrokers, "topic", cfg.KafkaRefreshTopic)
	} else {
		logger.Info("kafka refresh notifications disabled")
	}

	srv := httpapi.NewServer(cfg.HTTPAddr, cat, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start refresh loop.
	go func() {
		if err := refresher.Run(ctx); err != nil {
			logger.Error("refresher error", "error", err)
		}
	}()

	// Start refresh notification consumer.
	if reader != nil {
		go func() {
			if err := reader.Run(ctx); err != nil {
				logger.Error("kafka reader error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
