// Package handlers provides HTTP handlers for the API.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/unifiedui/mongo-viewer/internal/api/dto"
	"github.com/unifiedui/mongo-viewer/internal/services/session"
)

const (
	timestampLayout   = "2006-01-02T15:04:05.000Z07:00"
	readyProbeTimeout = 3 * time.Second
)

// SessionStatus is the part of the session manager the probes read.
type SessionStatus interface {
	Status() session.Status
	Ping(ctx context.Context) error
}

// Pinger is an optional dependency checked by Ready.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the health, readiness and liveness probes.
type HealthHandler struct {
	sessions SessionStatus
	// cache is nil when session persistence is disabled.
	cache Pinger
	now   func() time.Time
}

// NewHealthHandler builds the probes. cache may be nil.
func NewHealthHandler(sessions SessionStatus, cache Pinger) *HealthHandler {
	return &HealthHandler{
		sessions: sessions,
		cache:    cache,
		now:      time.Now,
	}
}

// Health handles the /health endpoint.
// @Summary Health check
// @Description Reports whether the gateway holds a MongoDB session
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Service healthy"
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:    "OK",
		Connected: h.sessions.Status().Connected,
		Timestamp: h.now().UTC().Format(timestampLayout),
	})
}

// Ready handles the /ready endpoint.
// Holding no session is ready; a held session that fails its ping is not.
// @Summary Readiness check
// @Description Returns 200 if the service is ready to accept traffic
// @Tags Health
// @Produce json
// @Success 200 {object} dto.ReadyResponse "Service ready"
// @Failure 503 {object} dto.ReadyResponse "Service not ready"
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyProbeTimeout)
	defer cancel()

	components := make(map[string]string, 2)
	ready := true
	record := func(name string, err error) {
		if err != nil {
			components[name] = "unhealthy"
			ready = false
			return
		}
		components[name] = "healthy"
	}

	if h.cache != nil {
		record("cache", h.cache.Ping(ctx))
	}
	if h.sessions.Status().Connected {
		record("mongodb", h.sessions.Ping(ctx))
	} else {
		components["mongodb"] = "disconnected"
	}

	status, body := http.StatusOK, dto.ReadyResponse{Status: "ready", Components: components}
	if !ready {
		status, body.Status = http.StatusServiceUnavailable, "not ready"
	}
	c.JSON(status, body)
}

// Live handles the /live endpoint.
// @Summary Liveness check
// @Description Returns 200 if the service is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Service alive"
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}
