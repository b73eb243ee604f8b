package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/plateful/discovery-feed/internal/config"
	"github.com/plateful/discovery-feed/internal/domain"
)

// stubFeed implements FeedProvider for testing.
type stubFeed struct {
	feed    []domain.RankedPost
	feedErr error

	gotUserID   string
	gotPage     int
	gotPageSize int

	interactions []domain.InteractionKind
}

func (s *stubFeed) GetFeed(ctx context.Context, userID string, page, pageSize int) ([]domain.RankedPost, error) {
	s.gotUserID = userID
	s.gotPage = page
	s.gotPageSize = pageSize
	return s.feed, s.feedErr
}

func (s *stubFeed) RefreshFeed(ctx context.Context, userID string) ([]domain.RankedPost, error) {
	s.gotUserID = userID
	return s.feed, s.feedErr
}

func (s *stubFeed) TrackInteraction(ctx context.Context, userID, restaurantID string, kind domain.InteractionKind) error {
	s.gotUserID = userID
	s.interactions = append(s.interactions, kind)
	return s.feedErr
}

func newTestServer(t *testing.T, feed *stubFeed) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := NewServer(&config.Config{Port: 0, PageSize: 20}, feed, logger)
	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func rankedPost(id string, score float64) domain.RankedPost {
	return domain.RankedPost{
		Post:         domain.Post{ID: id, RestaurantID: "rest-" + id},
		Score:        score,
		MatchFactors: []string{"highly_rated"},
		Reason:       "Hidden gem",
	}
}

func TestGetFeedEndpoint(t *testing.T) {
	feed := &stubFeed{feed: []domain.RankedPost{rankedPost("p1", 71), rankedPost("p2", 18.35)}}
	ts := newTestServer(t, feed)

	resp, err := http.Get(ts.URL + "/v1/users/u1/feed?page=2&pageSize=2")
	if err != nil {
		t.Fatalf("GET feed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if feed.gotUserID != "u1" || feed.gotPage != 2 || feed.gotPageSize != 2 {
		t.Errorf("service called with (%q, %d, %d)", feed.gotUserID, feed.gotPage, feed.gotPageSize)
	}

	var body struct {
		Posts   []domain.RankedPost `json:"posts"`
		HasMore bool                `json:"hasMore"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Posts) != 2 || body.Posts[0].ID != "p1" {
		t.Errorf("posts = %+v", body.Posts)
	}
	if !body.HasMore {
		t.Error("hasMore = false for a full page")
	}
	if body.Posts[0].Score != 71 || body.Posts[0].Reason != "Hidden gem" {
		t.Errorf("ranked fields not serialized: %+v", body.Posts[0])
	}
}

func TestGetFeedDefaultsPageSize(t *testing.T) {
	feed := &stubFeed{}
	ts := newTestServer(t, feed)

	resp, err := http.Get(ts.URL + "/v1/users/u1/feed")
	if err != nil {
		t.Fatalf("GET feed: %v", err)
	}
	resp.Body.Close()

	if feed.gotPage != 1 || feed.gotPageSize != 20 {
		t.Errorf("service called with page=%d pageSize=%d, want 1 and 20", feed.gotPage, feed.gotPageSize)
	}
}

func TestGetFeedInvalidParams(t *testing.T) {
	ts := newTestServer(t, &stubFeed{})

	for _, query := range []string{"?page=0", "?page=x", "?pageSize=0", "?pageSize=101"} {
		resp, err := http.Get(ts.URL + "/v1/users/u1/feed" + query)
		if err != nil {
			t.Fatalf("GET feed%s: %v", query, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", query, resp.StatusCode)
		}
	}
}

func TestRefreshFeedEndpoint(t *testing.T) {
	feed := &stubFeed{feed: []domain.RankedPost{rankedPost("p1", 50)}}
	ts := newTestServer(t, feed)

	resp, err := http.Post(ts.URL+"/v1/users/u1/feed/refresh", "application/json", nil)
	if err != nil {
		t.Fatalf("POST refresh: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Page    int  `json:"page"`
		HasMore bool `json:"hasMore"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Page != 1 {
		t.Errorf("page = %d, want 1", body.Page)
	}
	if body.HasMore {
		t.Error("hasMore = true for a short page")
	}
}

func TestTrackInteractionEndpoint(t *testing.T) {
	feed := &stubFeed{}
	ts := newTestServer(t, feed)

	body := bytes.NewBufferString(`{"restaurantId": "r1", "kind": "save"}`)
	resp, err := http.Post(ts.URL+"/v1/users/u1/interactions", "application/json", body)
	if err != nil {
		t.Fatalf("POST interactions: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}
	if len(feed.interactions) != 1 || feed.interactions[0] != domain.InteractionSave {
		t.Errorf("interactions = %v", feed.interactions)
	}
}

func TestTrackInteractionRejectsBadRequests(t *testing.T) {
	feed := &stubFeed{}
	ts := newTestServer(t, feed)

	tests := []struct {
		name string
		body string
	}{
		{"malformed body", `{`},
		{"missing restaurant", `{"kind": "save"}`},
		{"unknown kind", `{"restaurantId": "r1", "kind": "share"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/v1/users/u1/interactions", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("POST interactions: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}

	if len(feed.interactions) != 0 {
		t.Errorf("bad requests reached the service: %v", feed.interactions)
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, &stubFeed{})

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET health: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}
}
