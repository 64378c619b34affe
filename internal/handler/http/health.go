// Package http provides HTTP handlers and middleware for the API server.
// It includes the news query endpoint, user endpoints, health checks,
// metrics collection, authentication, and various middleware components.
package http

import (
	"context"
	"net/http"
	"time"

	"newshub/internal/handler/http/respond"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks"`    // Status of each check item
	Version   string                 `json:"version"`   // Application version
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string `json:"status"`            // "healthy" or "unhealthy"
	Message string `json:"message,omitempty"` // Optional status message
}

// Pinger checks connectivity to a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to the Pinger interface.
type PingerFunc func(ctx context.Context) error

// Ping calls f.
func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler handles health check endpoint requests. It reports store
// connectivity when a Pinger is configured; the in-memory store has nothing
// to check and reports healthy unconditionally.
type HealthHandler struct {
	Store   Pinger
	Version string
}

func (h HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    map[string]CheckStatus{},
		Version:   h.Version,
	}

	if h.Store != nil {
		if err := h.Store.Ping(ctx); err != nil {
			resp.Status = "unhealthy"
			resp.Checks["store"] = CheckStatus{Status: "unhealthy", Message: err.Error()}
		} else {
			resp.Checks["store"] = CheckStatus{Status: "healthy"}
		}
	} else {
		resp.Checks["store"] = CheckStatus{Status: "healthy", Message: "in-memory store"}
	}

	code := http.StatusOK
	if resp.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	respond.JSON(w, code, resp)
}
