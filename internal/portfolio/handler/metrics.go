package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gireesh-ai/portfolio/internal/portfolio/metrics"
)

// Metrics exposes pipeline counters in Prometheus text format.
func (h *Handler) Metrics(c *gin.Context) {
	c.Data(http.StatusOK, "text/plain; version=0.0.4; charset=utf-8",
		[]byte(metrics.Get().Export("portfolio")))
}
