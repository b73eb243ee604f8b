package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/plateful/discovery-feed/internal/domain"
)

// Client is a minimal HTTP client for the content service's export API. It
// is used to backfill the local catalog from the authoritative post store.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a content service client. The API key is sent as a
// bearer token on every request.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// exportResponse is the response body of GET /v1/export/posts.
type exportResponse struct {
	Posts  []domain.Post `json:"posts"`
	Cursor string        `json:"cursor,omitempty"`
}

// ListPosts fetches one page of posts from the export API. An empty cursor
// starts from the beginning; the returned cursor is empty when there are no
// more pages.
func (c *Client) ListPosts(ctx context.Context, cursor string, limit int) ([]domain.Post, string, error) {
	q := url.Values{}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var resp exportResponse
	if err := c.get(ctx, "/v1/export/posts?"+q.Encode(), &resp); err != nil {
		return nil, "", fmt.Errorf("list posts: %w", err)
	}

	return resp.Posts, resp.Cursor, nil
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}
