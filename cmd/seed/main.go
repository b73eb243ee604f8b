package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/plateful/discovery-feed/internal/content"
	"github.com/plateful/discovery-feed/internal/domain"
	"github.com/plateful/discovery-feed/internal/sqlite"
)

const backfillPageSize = 200

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		dbPath   string
		filePath string
		apiURL   string
		apiKey   string
	)

	flag.StringVar(&dbPath, "db", envOrDefault("FEED_DATABASE_PATH", "data/feed.db"), "Path of the SQLite database file")
	flag.StringVar(&filePath, "file", "", "JSON file with an array of posts to seed")
	flag.StringVar(&apiURL, "api-url", envOrDefault("CONTENT_API_URL", ""), "Content service base URL to backfill from")
	flag.StringVar(&apiKey, "api-key", envOrDefault("CONTENT_API_KEY", ""), "Content service API key")
	flag.Parse()

	if filePath == "" && apiURL == "" {
		return fmt.Errorf("either --file or --api-url is required")
	}

	store, err := sqlite.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	ctx := context.Background()

	if filePath != "" {
		n, err := seedFromFile(ctx, store, filePath)
		if err != nil {
			return err
		}
		fmt.Printf("Seeded %d posts from %s\n", n, filePath)
		return nil
	}

	n, err := backfillFromAPI(ctx, store, apiURL, apiKey)
	if err != nil {
		return err
	}
	fmt.Printf("Backfilled %d posts from %s\n", n, apiURL)
	return nil
}

func seedFromFile(ctx context.Context, store *sqlite.Store, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read file: %w", err)
	}

	var posts []domain.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return 0, fmt.Errorf("unmarshal posts: %w", err)
	}

	if err := store.UpsertPosts(ctx, posts); err != nil {
		return 0, fmt.Errorf("upsert posts: %w", err)
	}
	return len(posts), nil
}

func backfillFromAPI(ctx context.Context, store *sqlite.Store, baseURL, apiKey string) (int, error) {
	client := content.NewClient(baseURL, apiKey)

	total := 0
	cursor := ""
	for {
		posts, next, err := client.ListPosts(ctx, cursor, backfillPageSize)
		if err != nil {
			return total, err
		}
		if len(posts) == 0 {
			return total, nil
		}

		if err := store.UpsertPosts(ctx, posts); err != nil {
			return total, fmt.Errorf("upsert posts: %w", err)
		}
		total += len(posts)

		if next == "" {
			return total, nil
		}
		cursor = next
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
