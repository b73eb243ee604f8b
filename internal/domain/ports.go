package domain

import (
	"context"
	"time"
)

// ProfileStore defines persistence operations for per-user profiles.
type ProfileStore interface {
	// GetPreferences retrieves the user's declared preferences. Returns a
	// zero value if the user has none saved.
	GetPreferences(ctx context.Context, userID string) (Preferences, error)

	// GetBehavior retrieves the user's accumulated activity. Returns a
	// zero value if the user has none saved.
	GetBehavior(ctx context.Context, userID string) (Behavior, error)

	// SaveBehavior persists the user's activity record, replacing the
	// previous one.
	SaveBehavior(ctx context.Context, userID string, behavior Behavior) error
}

// CandidateCatalog defines persistence operations for the candidate pool.
type CandidateCatalog interface {
	// ListCandidates returns every post available for ranking.
	ListCandidates(ctx context.Context) ([]Post, error)

	// CreatePost inserts a new post into the catalog. Inserting an
	// existing ID is a no-op.
	CreatePost(ctx context.Context, post Post) error

	// DeletePost removes a post by ID.
	DeletePost(ctx context.Context, id string) error

	// DeleteOldPosts removes posts older than maxAge and any excess rows
	// beyond maxRows, keeping the most recent posts. Returns the number
	// of rows deleted.
	DeleteOldPosts(ctx context.Context, maxAge time.Duration, maxRows int) (int64, error)
}

// IngestCursorStore defines persistence operations for content-stream
// cursors.
type IngestCursorStore interface {
	// GetCursor retrieves the last-processed stream cursor for the given
	// source name. Returns 0 if no cursor has been saved.
	GetCursor(ctx context.Context, source string) (int64, error)

	// UpdateCursor persists the stream cursor so ingestion can resume on
	// restart.
	UpdateCursor(ctx context.Context, source string, cursor int64) error
}
