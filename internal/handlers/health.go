package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/etuni/notify-service/internal/email"
)

// HealthChecker reports whether a dependency is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// StatsProvider exposes notifier delivery counters
type StatsProvider interface {
	Stats() email.Stats
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string       `json:"status"`
	Database  string       `json:"database"`
	Notifier  *email.Stats `json:"notifier,omitempty"`
	Timestamp string       `json:"timestamp"`
}

// HealthHandler reports service health
type HealthHandler struct {
	db       HealthChecker
	notifier StatsProvider
}

// NewHealthHandler creates a health handler. Either dependency may be nil.
func NewHealthHandler(db HealthChecker, notifier StatsProvider) *HealthHandler {
	return &HealthHandler{db: db, notifier: notifier}
}

// Check handles health check requests
// GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	resp := HealthResponse{
		Status:    "ok",
		Database:  "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK

	if h.db == nil {
		resp.Database = "not_configured"
	} else if err := h.db.HealthCheck(c.Request.Context()); err != nil {
		resp.Status = "degraded"
		resp.Database = "unavailable"
		status = http.StatusServiceUnavailable
	}

	if h.notifier != nil {
		stats := h.notifier.Stats()
		resp.Notifier = &stats
	}

	c.JSON(status, resp)
}
