package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/plateful/discovery-feed/internal/config"
	"github.com/plateful/discovery-feed/internal/domain"
)

const maxPageSize = 100

// FeedProvider is the slice of the feed service the HTTP layer needs.
// Implemented by *domain.FeedService.
type FeedProvider interface {
	GetFeed(ctx context.Context, userID string, page, pageSize int) ([]domain.RankedPost, error)
	RefreshFeed(ctx context.Context, userID string) ([]domain.RankedPost, error)
	TrackInteraction(ctx context.Context, userID, restaurantID string, kind domain.InteractionKind) error
}

// Server is the HTTP server that exposes the feed API.
type Server struct {
	feed            FeedProvider
	defaultPageSize int
	logger          *slog.Logger
	httpServer      *http.Server
}

// NewServer creates a new HTTP server with the given feed provider.
func NewServer(cfg *config.Config, feed FeedProvider, logger *slog.Logger) *Server {
	s := &Server{
		feed:            feed,
		defaultPageSize: cfg.PageSize,
		logger:          logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/users/{userID}/feed", s.handleGetFeed)
	mux.HandleFunc("POST /v1/users/{userID}/feed/refresh", s.handleRefreshFeed)
	mux.HandleFunc("POST /v1/users/{userID}/interactions", s.handleTrackInteraction)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      withLogging(logger, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins listening for HTTP requests. It blocks until the server is
// shut down or an error occurs.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// feedResponse is the body returned by the feed endpoints. HasMore mirrors
// the pagination contract: a full page means more may follow.
type feedResponse struct {
	Posts    []domain.RankedPost `json:"posts"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"pageSize"`
	HasMore  bool                `json:"hasMore"`
}

func (s *Server) handleGetFeed(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "user id is required")
		return
	}

	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		parsed, err := strconv.Atoi(p)
		if err != nil || parsed < 1 {
			s.logger.Warn("invalid page parameter", "page", p, "error", err)
			writeError(w, http.StatusBadRequest, "InvalidRequest", "page must be a positive integer")
			return
		}
		page = parsed
	}

	pageSize := s.defaultPageSize
	if p := r.URL.Query().Get("pageSize"); p != "" {
		parsed, err := strconv.Atoi(p)
		if err != nil || parsed < 1 || parsed > maxPageSize {
			s.logger.Warn("invalid pageSize parameter", "page_size", p, "error", err)
			writeError(w, http.StatusBadRequest, "InvalidRequest", fmt.Sprintf("pageSize must be between 1 and %d", maxPageSize))
			return
		}
		pageSize = parsed
	}

	posts, err := s.feed.GetFeed(r.Context(), userID, page, pageSize)
	if err != nil {
		s.logger.Error("failed to build feed",
			"user_id", userID,
			"page", page,
			"page_size", pageSize,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "InternalError", "failed to build feed")
		return
	}

	writeJSON(w, http.StatusOK, feedResponse{
		Posts:    posts,
		Page:     page,
		PageSize: pageSize,
		HasMore:  len(posts) == pageSize,
	})
}

func (s *Server) handleRefreshFeed(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "user id is required")
		return
	}

	posts, err := s.feed.RefreshFeed(r.Context(), userID)
	if err != nil {
		s.logger.Error("failed to refresh feed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "InternalError", "failed to refresh feed")
		return
	}

	writeJSON(w, http.StatusOK, feedResponse{
		Posts:    posts,
		Page:     1,
		PageSize: s.defaultPageSize,
		HasMore:  len(posts) == s.defaultPageSize,
	})
}

// interactionRequest is the body of POST /v1/users/{userID}/interactions.
type interactionRequest struct {
	RestaurantID string `json:"restaurantId"`
	Kind         string `json:"kind"`
}

func (s *Server) handleTrackInteraction(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "user id is required")
		return
	}

	var req interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "malformed request body")
		return
	}
	if req.RestaurantID == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "restaurantId is required")
		return
	}

	kind := domain.InteractionKind(req.Kind)
	if !kind.Valid() {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "kind must be one of view, save, checkin")
		return
	}

	if err := s.feed.TrackInteraction(r.Context(), userID, req.RestaurantID, kind); err != nil {
		s.logger.Error("failed to track interaction",
			"user_id", userID,
			"restaurant_id", req.RestaurantID,
			"kind", req.Kind,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "InternalError", "failed to track interaction")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, errType, message string) {
	writeJSON(w, status, map[string]string{
		"error":   errType,
		"message": message,
	})
}

func withLogging(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration", time.Since(start),
			"request_id", requestID,
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
