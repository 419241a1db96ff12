package handlers

import (
	"net/http"
	"time"

	"zoorequest/internal/caching"
	"zoorequest/internal/repositories"

	"github.com/labstack/echo/v4"
)

// HealthHandlers reports connectivity of the backing stores.
type HealthHandlers struct {
	db       repositories.Database
	sessions caching.SessionStore
}

func NewHealthHandlers(db repositories.Database, sessions caching.SessionStore) *HealthHandlers {
	return &HealthHandlers{db: db, sessions: sessions}
}

type healthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// Check handles GET /health.
func (h *HealthHandlers) Check(c echo.Context) error {
	ctx := c.Request().Context()
	health := &healthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string),
	}

	if _, err := h.db.Exec(ctx, "SELECT 1"); err != nil {
		health.Services["database"] = "unhealthy"
		health.Status = "degraded"
	} else {
		health.Services["database"] = "healthy"
	}

	if err := h.sessions.Ping(ctx); err != nil {
		health.Services["sessions"] = "unhealthy"
		health.Status = "degraded"
	} else {
		health.Services["sessions"] = "healthy"
	}

	code := http.StatusOK
	if health.Status == "degraded" {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, health)
}

// Ready handles GET /health/ready.
func (h *HealthHandlers) Ready(c echo.Context) error {
	ctx := c.Request().Context()
	if _, err := h.db.Exec(ctx, "SELECT 1"); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
	}
	if err := h.sessions.Ping(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
