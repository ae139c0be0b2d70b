package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-center-api/internal/service"
	"github.com/noah-isme/tutor-center-api/pkg/response"
)

type systemService interface {
	Info() service.ServiceInfo
	Health() service.HealthStatus
	Ready(ctx context.Context) error
}

// SystemHandler serves the info, probe and metrics endpoints.
type SystemHandler struct {
	system  systemService
	metrics http.Handler
}

// NewSystemHandler constructs a SystemHandler. A nil metrics handler disables /metrics.
func NewSystemHandler(system systemService, metrics http.Handler) *SystemHandler {
	return &SystemHandler{system: system, metrics: metrics}
}

// Info godoc
// @Summary Service info and endpoint list
// @Tags System
// @Produce json
// @Success 200 {object} service.ServiceInfo
// @Router / [get]
func (h *SystemHandler) Info(c *gin.Context) {
	response.OK(c, h.system.Info())
}

// Health godoc
// @Summary Liveness probe
// @Tags System
// @Produce json
// @Success 200 {object} service.HealthStatus
// @Router /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	response.OK(c, h.system.Health())
}

// Ready godoc
// @Summary Readiness probe
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 500 {object} response.ErrorBody
// @Router /ready [get]
func (h *SystemHandler) Ready(c *gin.Context) {
	if err := h.system.Ready(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"status": "ready"})
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *SystemHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.ServeHTTP(c.Writer, c.Request)
}
