package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "FEED_DATABASE_PATH", "FEED_INGEST_URL", "FEED_PAGE_SIZE", "FEED_SHUFFLE_PROBABILITY"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.DatabasePath != "data/feed.db" {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}
	if cfg.IngestURL != "" {
		t.Errorf("IngestURL = %q, want empty", cfg.IngestURL)
	}
	if cfg.PageSize != 20 {
		t.Errorf("PageSize = %d, want 20", cfg.PageSize)
	}
	if cfg.ShuffleProbability != 0.1 {
		t.Errorf("ShuffleProbability = %v, want 0.1", cfg.ShuffleProbability)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("FEED_DATABASE_PATH", "/tmp/feed.db")
	t.Setenv("FEED_INGEST_URL", "wss://content.plateful.app/stream")
	t.Setenv("FEED_PAGE_SIZE", "50")
	t.Setenv("FEED_SHUFFLE_PROBABILITY", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != 9000 || cfg.PageSize != 50 || cfg.ShuffleProbability != 0 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.IngestURL != "wss://content.plateful.app/stream" {
		t.Errorf("IngestURL = %q", cfg.IngestURL)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"PORT", "not-a-port"},
		{"FEED_PAGE_SIZE", "0"},
		{"FEED_PAGE_SIZE", "abc"},
		{"FEED_SHUFFLE_PROBABILITY", "1.5"},
		{"FEED_SHUFFLE_PROBABILITY", "-0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
