package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/plateful/discovery-feed/internal/config"
	"github.com/plateful/discovery-feed/internal/domain"
	"github.com/plateful/discovery-feed/internal/httpserver"
	"github.com/plateful/discovery-feed/internal/ingest"
	"github.com/plateful/discovery-feed/internal/sqlite"
)

// Catalog retention: posts older than 30 days or beyond the newest 5000 are
// dropped.
const (
	retentionInterval = time.Hour
	retentionMaxAge   = 30 * 24 * time.Hour
	retentionMaxRows  = 5000
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Set up the store (implements the profile, catalog, and cursor ports)
	store, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()
	logger.Info("opened database", "path", cfg.DatabasePath)

	feedService, err := domain.NewFeedService(domain.FeedConfig{
		DefaultPageSize:    cfg.PageSize,
		ShuffleProbability: cfg.ShuffleProbability,
	}, store, store, store, logger)
	if err != nil {
		return fmt.Errorf("create feed service: %w", err)
	}

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Start the content stream subscriber in the background
	if cfg.IngestURL != "" {
		subscriber := ingest.NewSubscriber(cfg.IngestURL, feedService, logger)
		go func() {
			if err := subscriber.Start(ctx); err != nil && ctx.Err() == nil {
				logger.Error("stream subscriber exited with error", "error", err)
			}
		}()
	} else {
		logger.Info("FEED_INGEST_URL not set, ingestion disabled")
	}

	// Start background catalog retention
	go feedService.StartRetentionJob(ctx, retentionInterval, retentionMaxAge, retentionMaxRows)

	// Start the HTTP server
	server := httpserver.NewServer(cfg, feedService, logger)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server exited with error", "error", err)
		}
	}()

	logger.Info("server started", "port", cfg.Port)

	// Wait for shutdown signal
	sig := <-sigCh
	logger.Info("received signal, shutting down", "signal", sig)
	cancel()

	if err := server.Shutdown(context.Background()); err != nil {
		logger.Error("error shutting down http server", "error", err)
	}

	return nil
}
