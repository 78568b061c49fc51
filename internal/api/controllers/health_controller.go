package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"wisdomcard/internal/infra"
)

type HealthController struct {
	metrics *infra.Metrics
}

func NewHealthController(metrics *infra.Metrics) *HealthController {
	return &HealthController{metrics: metrics}
}

// GET /healthz
func (h *HealthController) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GET /metrics
func (h *HealthController) MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(h.metrics.Registry, promhttp.HandlerOpts{}))
}
