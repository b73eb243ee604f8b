package ingest

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/plateful/discovery-feed/internal/domain"
)

// Event kinds emitted by the content pipeline stream.
const (
	kindPostCreated = "post_created"
	kindPostDeleted = "post_deleted"
)

// streamEvent is the raw JSON structure from the content pipeline stream.
// Seq is a monotonically increasing sequence number used as the resume
// cursor.
type streamEvent struct {
	Seq    int64        `json:"seq"`
	Kind   string       `json:"kind"`
	Post   *domain.Post `json:"post,omitempty"`
	PostID string       `json:"postId,omitempty"`
}

// parseEvent decodes a stream message and checks that the kind-specific
// payload is present.
func parseEvent(data []byte) (*streamEvent, error) {
	var event streamEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}

	switch event.Kind {
	case kindPostCreated:
		if event.Post == nil {
			return nil, fmt.Errorf("%s event without post payload", event.Kind)
		}
	case kindPostDeleted:
		if event.PostID == "" {
			return nil, fmt.Errorf("%s event without post id", event.Kind)
		}
	}

	return &event, nil
}
