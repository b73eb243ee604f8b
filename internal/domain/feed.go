package domain

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"sync"
	"time"
)

// FeedConfig tunes the feed service.
type FeedConfig struct {
	// DefaultPageSize is used when the caller does not specify one, and
	// by RefreshFeed.
	DefaultPageSize int

	// ShuffleProbability is the chance, per feed build, that the returned
	// page gets one shuffle pass. Must be in [0, 1]. Zero disables
	// shuffling entirely.
	ShuffleProbability float64

	// Seed seeds the internal random source. If zero, the current time
	// is used.
	Seed int64
}

// Validate checks the configuration for out-of-range values.
func (c FeedConfig) Validate() error {
	if c.DefaultPageSize < 1 {
		return fmt.Errorf("default page size must be at least 1, got %d", c.DefaultPageSize)
	}
	if c.ShuffleProbability < 0 || c.ShuffleProbability > 1 {
		return fmt.Errorf("shuffle probability must be in [0, 1], got %v", c.ShuffleProbability)
	}
	return nil
}

// FeedService is the core domain service. It owns the business logic for
// scoring catalog posts against a user's profile, assembling ranked feed
// pages, and recording interactions back into the user's behavior.
//
// Each feed build works on a freshly fetched snapshot of the profile and the
// catalog, so concurrent requests never share mutable state. The only
// internal state is the random source behind the shuffle, which is guarded by
// a mutex.
type FeedService struct {
	cfg      FeedConfig
	profiles ProfileStore
	catalog  CandidateCatalog
	cursors  IngestCursorStore
	logger   *slog.Logger

	// now is swapped out by tests to pin the context resolution.
	now func() time.Time

	rng   *rand.Rand
	rngMu sync.Mutex
}

// NewFeedService creates a FeedService with the given configuration and
// stores.
func NewFeedService(cfg FeedConfig, profiles ProfileStore, catalog CandidateCatalog, cursors IngestCursorStore, logger *slog.Logger) (*FeedService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid feed config: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &FeedService{
		cfg:      cfg,
		profiles: profiles,
		catalog:  catalog,
		cursors:  cursors,
		logger:   logger,
		now:      time.Now,
		rng:      rand.New(rand.NewSource(seed)),
	}, nil
}

// GetFeed returns one page of the user's ranked feed. Pages are 1-indexed;
// values below 1 are treated as page 1. A page shorter than pageSize means
// the feed is exhausted.
func (s *FeedService) GetFeed(ctx context.Context, userID string, page, pageSize int) ([]RankedPost, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = s.cfg.DefaultPageSize
	}

	prefs, err := s.profiles.GetPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}

	behavior, err := s.profiles.GetBehavior(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get behavior: %w", err)
	}

	candidates, err := s.catalog.ListCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	rctx := ResolveContext(s.now(), prefs)

	feed, err := s.buildFeed(candidates, prefs, behavior, rctx, page, pageSize)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("feed built",
		"user_id", userID,
		"page", page,
		"page_size", pageSize,
		"candidates", len(candidates),
		"returned", len(feed),
		"meal_time", string(rctx.MealTime),
	)

	return feed, nil
}

// RefreshFeed re-resolves the context, re-scores the catalog, and returns the
// first page with the default page size.
func (s *FeedService) RefreshFeed(ctx context.Context, userID string) ([]RankedPost, error) {
	return s.GetFeed(ctx, userID, 1, s.cfg.DefaultPageSize)
}

// buildFeed scores every candidate, sorts them by score (stable, so equal
// scores keep catalog order), slices out the requested page, and applies the
// probabilistic shuffle to that page only.
func (s *FeedService) buildFeed(candidates []Post, prefs Preferences, behavior Behavior, rctx RecommendationContext, page, pageSize int) ([]RankedPost, error) {
	ranked := make([]RankedPost, 0, len(candidates))
	for _, post := range candidates {
		if err := validatePost(post); err != nil {
			return nil, fmt.Errorf("candidate %q: %w", post.ID, err)
		}
		score, factors, reason := ScorePost(post, prefs, behavior, rctx)
		ranked = append(ranked, RankedPost{
			Post:         post,
			Score:        score,
			MatchFactors: factors,
			Reason:       reason,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	offset := (page - 1) * pageSize
	if offset >= len(ranked) {
		return []RankedPost{}, nil
	}
	end := offset + pageSize
	if end > len(ranked) {
		end = len(ranked)
	}
	pageSlice := ranked[offset:end]

	s.maybeShuffle(pageSlice)

	return pageSlice, nil
}

// maybeShuffle runs a single Fisher-Yates pass over the page with the
// configured probability. Only the already-paginated slice moves; top posts
// stay on top pages regardless.
func (s *FeedService) maybeShuffle(page []RankedPost) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()

	if s.cfg.ShuffleProbability == 0 || s.rng.Float64() >= s.cfg.ShuffleProbability {
		return
	}

	for i := len(page) - 1; i > 0; i-- {
		j := s.rng.Intn(i + 1)
		page[i], page[j] = page[j], page[i]
	}
}

// TrackInteraction applies a user action to their behavior record and writes
// it through to the profile store. Subsequent feed builds see the update.
func (s *FeedService) TrackInteraction(ctx context.Context, userID, restaurantID string, kind InteractionKind) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown interaction kind %q", kind)
	}

	behavior, err := s.profiles.GetBehavior(ctx, userID)
	if err != nil {
		return fmt.Errorf("get behavior: %w", err)
	}

	updated := RecordInteraction(behavior, restaurantID, kind)

	if err := s.profiles.SaveBehavior(ctx, userID, updated); err != nil {
		return fmt.Errorf("save behavior: %w", err)
	}

	s.logger.Debug("interaction recorded",
		"user_id", userID,
		"restaurant_id", restaurantID,
		"kind", string(kind),
		"interaction_score", updated.InteractionScores[restaurantID],
	)

	return nil
}

// IngestPost validates an incoming post from the content stream and stores it
// in the catalog.
func (s *FeedService) IngestPost(ctx context.Context, post Post) error {
	if err := validatePost(post); err != nil {
		return fmt.Errorf("ingest post %q: %w", post.ID, err)
	}
	if err := s.catalog.CreatePost(ctx, post); err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// RemovePost removes a post from the catalog by ID.
func (s *FeedService) RemovePost(ctx context.Context, id string) error {
	return s.catalog.DeletePost(ctx, id)
}

// GetCursor retrieves the last-processed content-stream cursor for the given
// source.
func (s *FeedService) GetCursor(ctx context.Context, source string) (int64, error) {
	return s.cursors.GetCursor(ctx, source)
}

// UpdateCursor persists the content-stream cursor for the given source.
func (s *FeedService) UpdateCursor(ctx context.Context, source string, cursor int64) error {
	return s.cursors.UpdateCursor(ctx, source, cursor)
}

// StartRetentionJob runs a background loop that removes catalog posts older
// than maxAge and caps the total at maxRows. It runs immediately on start and
// then repeats at the given interval. It blocks until ctx is cancelled.
func (s *FeedService) StartRetentionJob(ctx context.Context, interval, maxAge time.Duration, maxRows int) {
	s.runRetention(ctx, maxAge, maxRows)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runRetention(ctx, maxAge, maxRows)
		}
	}
}

func (s *FeedService) runRetention(ctx context.Context, maxAge time.Duration, maxRows int) {
	deleted, err := s.catalog.DeleteOldPosts(ctx, maxAge, maxRows)
	if err != nil {
		s.logger.Error("catalog retention failed", "error", err)
	} else if deleted > 0 {
		s.logger.Info("catalog retention complete", "deleted", deleted)
	}
}
