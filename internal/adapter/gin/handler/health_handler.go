package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Prober reports whether a dependency is usable.
type Prober func(ctx context.Context) error

// HealthHandler answers liveness checks.
type HealthHandler struct {
	service string
	probe   Prober
	log     *zap.Logger
}

// NewHealthHandler creates a HealthHandler. A nil probe always reports healthy.
func NewHealthHandler(service string, probe Prober, log *zap.Logger) *HealthHandler {
	return &HealthHandler{service: service, probe: probe, log: log}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	if h.probe != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := h.probe(ctx); err != nil {
			h.log.Warn("health probe failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"service": h.service,
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.service,
	})
}
