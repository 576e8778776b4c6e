package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"spaceapp/internal/shared/response"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
	Cache     string `json:"cache"`
}

type DatabasePinger interface {
	PingContext(ctx context.Context) error
}

type CachePinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    DatabasePinger
	cache CachePinger
}

// NewHealthHandler accepts a nil cache when Redis is disabled.
func NewHealthHandler(db DatabasePinger, cache CachePinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "health")

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Database:  "connected",
		Cache:     "disabled",
	}

	if err := h.db.PingContext(ctx); err != nil {
		logger.Warn("Database ping failed", "error", err)
		resp.Status = "degraded"
		resp.Database = "disconnected"
	}

	if h.cache != nil {
		resp.Cache = "connected"
		if err := h.cache.Ping(ctx); err != nil {
			logger.Warn("Cache ping failed", "error", err)
			resp.Cache = "disconnected"
		}
	}

	status := http.StatusOK
	if resp.Database != "connected" {
		status = http.StatusServiceUnavailable
	}

	response.Success(w, status, resp)
}
