package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gomexpay/edenred/infra/response"
	"github.com/gomexpay/edenred/infra/store"
	"github.com/gomexpay/edenred/provider"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	store     *store.SQLiteStore
	startTime time.Time
}

// HealthStatus represents overall system health
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
	Providers []string  `json:"providers"`
	Store     string    `json:"store"`
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(s *store.SQLiteStore) *HealthHandler {
	return &HealthHandler{
		store:     s,
		startTime: time.Now(),
	}
}

// CheckHealth reports provider registration and store connectivity
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).String(),
		Providers: provider.GetAvailableProviders(),
		Store:     "not_configured",
	}

	if h.store != nil {
		if err := h.store.Ping(ctx); err != nil {
			health.Store = "unhealthy"
			health.Status = "degraded"
		} else {
			health.Store = "healthy"
		}
	}

	if len(health.Providers) == 0 {
		health.Status = "unhealthy"
	}

	statusCode := http.StatusOK
	if health.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	_ = response.WriteJSON(w, statusCode, response.Response{
		Code:    statusCode,
		Success: health.Status != "unhealthy",
		Message: "Service is " + health.Status,
		Data:    health,
	})
}
