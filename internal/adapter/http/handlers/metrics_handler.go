package handlers

import (
	"net/http"

	"payment_gateway/internal/infrastructure/metrics"

	"github.com/gin-gonic/gin"
)

type MetricsHandler struct {
	counters *metrics.Counters
}

func NewMetricsHandler(counters *metrics.Counters) *MetricsHandler {
	return &MetricsHandler{counters: counters}
}

// GetMetrics returns the counter snapshot.
// @Summary  Counters
// @Tags     ops
// @Produce  json
// @Success  200  {object}  metrics.Snapshot
// @Router   /metrics [get]
func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.counters.Snapshot())
}

// Ping answers liveness checks.
// @Summary  Ping
// @Tags     ops
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /ping [get]
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
