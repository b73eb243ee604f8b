package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for the application.
type Config struct {
	// Port is the HTTP server port.
	Port int

	// DatabasePath is the path of the SQLite database file.
	DatabasePath string

	// IngestURL is the websocket endpoint of the content pipeline
	// stream. Empty disables ingestion; the service then serves whatever
	// the catalog already holds.
	IngestURL string

	// PageSize is the default feed page size.
	PageSize int

	// ShuffleProbability is the per-build chance of shuffling the
	// returned page.
	ShuffleProbability float64
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	port := 8080
	if p := os.Getenv("PORT"); p != "" {
		var err error
		port, err = strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %w", err)
		}
	}

	dbPath := os.Getenv("FEED_DATABASE_PATH")
	if dbPath == "" {
		dbPath = "data/feed.db"
	}

	ingestURL := os.Getenv("FEED_INGEST_URL")

	pageSize := 20
	if p := os.Getenv("FEED_PAGE_SIZE"); p != "" {
		var err error
		pageSize, err = strconv.Atoi(p)
		if err != nil || pageSize < 1 {
			return nil, fmt.Errorf("invalid FEED_PAGE_SIZE %q", p)
		}
	}

	shuffleProb := 0.1
	if p := os.Getenv("FEED_SHUFFLE_PROBABILITY"); p != "" {
		var err error
		shuffleProb, err = strconv.ParseFloat(p, 64)
		if err != nil || shuffleProb < 0 || shuffleProb > 1 {
			return nil, fmt.Errorf("invalid FEED_SHUFFLE_PROBABILITY %q", p)
		}
	}

	return &Config{
		Port:               port,
		DatabasePath:       dbPath,
		IngestURL:          ingestURL,
		PageSize:           pageSize,
		ShuffleProbability: shuffleProb,
	}, nil
}
