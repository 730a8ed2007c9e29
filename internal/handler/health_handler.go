package handler

import (
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	ready atomic.Bool
}

// NewHealthHandler creates a new HealthHandler. It reports not ready until
// MarkReady is called.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// MarkReady is called once the initial gallery load has finished, whether or
// not it succeeded.
func (h *HealthHandler) MarkReady() {
	h.ready.Store(true)
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	if !h.ready.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "initial gallery load in progress"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
