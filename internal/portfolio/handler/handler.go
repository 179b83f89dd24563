// Package handler provides the HTTP handlers for the portfolio API.
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gireesh-ai/portfolio/internal/pkg/session"
	"github.com/gireesh-ai/portfolio/internal/portfolio/biz"
	"github.com/gireesh-ai/portfolio/pkg/component/storage"
)

// defaultPipelineTimeout bounds a single ask or chat request end to end
// when no timeout is configured.
const defaultPipelineTimeout = 60 * time.Second

// Handler serves the portfolio API endpoints.
type Handler struct {
	service biz.Service
	session *session.Manager
	storage *storage.Manager
	timeout time.Duration
}

// New creates a Handler. The storage manager may be nil when no backing
// stores are registered; a non-positive timeout falls back to the
// default.
func New(service biz.Service, sessionMgr *session.Manager, storageMgr *storage.Manager, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = defaultPipelineTimeout
	}
	return &Handler{
		service: service,
		session: sessionMgr,
		storage: storageMgr,
		timeout: timeout,
	}
}

// Healthz reports service health. Vector index stats are best-effort:
// an unreachable index does not fail the probe, but an unhealthy backing
// store marks the status degraded.
func (h *Handler) Healthz(c *gin.Context) {
	resp := gin.H{"status": "ok"}
	if stats, err := h.service.Stats(c.Request.Context()); err == nil {
		for k, v := range stats {
			resp[k] = v
		}
	}
	if h.storage != nil && h.storage.Count() > 0 {
		deps := gin.H{}
		for name, status := range h.storage.HealthCheckAll(c.Request.Context()) {
			if status.Healthy {
				deps[name] = "ok"
				continue
			}
			deps[name] = status.Error.Error()
			resp["status"] = "degraded"
		}
		resp["dependencies"] = deps
	}
	c.JSON(http.StatusOK, resp)
}
