// Package health implements two health endpoints: GET /health (liveness,
// used by clients to pick among candidate server URLs) and GET
// /ai/preflight (the configured AI provider's self-check).
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PiyushDatta/senseboard/internal/aiprovider"
)

// HealthResponse is GET /health's body.
type HealthResponse struct {
	Status            string    `json:"status"`
	Now               time.Time `json:"now"`
	InstanceStartedAt time.Time `json:"instanceStartedAt"`
	InstanceID        string    `json:"instanceId"`
}

// PreflightResponse is GET /ai/preflight's body.
type PreflightResponse struct {
	OK       bool   `json:"ok"`
	Provider string `json:"provider"`
	Error    string `json:"error,omitempty"`
}

// Handler serves SenseBoard's health endpoints.
type Handler struct {
	startedAt  time.Time
	instanceID string
	provider   aiprovider.Provider
}

// NewHandler builds a Handler stamped with the process's start time and a
// fresh instance id, checking provider on /ai/preflight calls.
func NewHandler(provider aiprovider.Provider) *Handler {
	return &Handler{
		startedAt:  time.Now(),
		instanceID: uuid.NewString(),
		provider:   provider,
	}
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:            "ok",
		Now:               time.Now(),
		InstanceStartedAt: h.startedAt,
		InstanceID:        h.instanceID,
	})
}

// Preflight handles GET /ai/preflight: a minimal round-trip through the
// configured provider to confirm it is reachable and credentialed before
// a client relies on it. A nil provider means ai.provider=deterministic,
// which needs no external round-trip and is always healthy.
func (h *Handler) Preflight(c *gin.Context) {
	if h.provider == nil {
		c.JSON(http.StatusOK, PreflightResponse{OK: true, Provider: "deterministic"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	_, err := h.provider.Generate(ctx, "ping", "respond with {\"ok\":true}")
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, PreflightResponse{OK: false, Provider: h.provider.Name(), Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, PreflightResponse{OK: true, Provider: h.provider.Name()})
}
