package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"github.com/plateful/discovery-feed/internal/domain"
)

const (
	cursorSourceName   = "content-stream"
	cursorSaveInterval = 5 * time.Second
	reconnectDelay     = 5 * time.Second
)

// Subscriber connects to the content pipeline's websocket stream and applies
// post events to the catalog.
type Subscriber struct {
	url         string
	feedService *domain.FeedService
	logger      *slog.Logger
}

// NewSubscriber creates a new stream subscriber.
func NewSubscriber(streamURL string, feedService *domain.FeedService, logger *slog.Logger) *Subscriber {
	return &Subscriber{
		url:         streamURL,
		feedService: feedService,
		logger:      logger,
	}
}

// Start connects to the stream and processes events until the context is
// cancelled. It automatically reconnects on transient errors.
func (s *Subscriber) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if err := s.subscribe(ctx); err != nil {
				s.logger.Error("stream connection error, reconnecting", "error", err)
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(reconnectDelay):
					// backoff before reconnecting
				}
			}
		}
	}
}

func (s *Subscriber) buildURL(cursor int64) string {
	u, _ := url.Parse(s.url)
	q := u.Query()
	if cursor > 0 {
		q.Set("cursor", fmt.Sprintf("%d", cursor))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (s *Subscriber) subscribe(ctx context.Context) error {
	cursor, err := s.feedService.GetCursor(ctx, cursorSourceName)
	if err != nil {
		s.logger.Warn("failed to load cursor, starting from live", "error", err)
	}

	wsURL := s.buildURL(cursor)
	s.logger.Info("connecting to content stream", "url", wsURL)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial content stream: %w", err)
	}
	defer conn.Close()

	s.logger.Info("connected to content stream")

	lastCursorSave := time.Now()
	var latestCursor int64
	var eventsReceived, postsIngested int64
	lastStatsLog := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read message: %w", err)
		}

		event, err := parseEvent(message)
		if err != nil {
			s.logger.Error("failed to parse event", "error", err)
			continue
		}

		eventsReceived++
		latestCursor = event.Seq

		if ingested, err := s.handleEvent(ctx, event); err != nil {
			s.logger.Error("failed to handle event", "kind", event.Kind, "error", err)
		} else if ingested {
			postsIngested++
		}

		// Log stats every 30 seconds
		if time.Since(lastStatsLog) >= 30*time.Second {
			s.logger.Info("stream stats",
				"events_received", eventsReceived,
				"posts_ingested", postsIngested,
			)
			lastStatsLog = time.Now()
		}

		// Periodically save cursor
		if time.Since(lastCursorSave) >= cursorSaveInterval {
			if err := s.feedService.UpdateCursor(ctx, cursorSourceName, latestCursor); err != nil {
				s.logger.Error("failed to save cursor", "error", err)
			} else {
				lastCursorSave = time.Now()
			}
		}
	}
}

func (s *Subscriber) handleEvent(ctx context.Context, event *streamEvent) (ingested bool, err error) {
	switch event.Kind {
	case kindPostCreated:
		if err := s.feedService.IngestPost(ctx, *event.Post); err != nil {
			return false, err
		}
		s.logger.Debug("post ingested",
			"post_id", event.Post.ID,
			"restaurant", event.Post.RestaurantName,
		)
		return true, nil

	case kindPostDeleted:
		return false, s.feedService.RemovePost(ctx, event.PostID)

	default:
		return false, nil
	}
}
