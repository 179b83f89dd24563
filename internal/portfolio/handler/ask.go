package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/gireesh-ai/portfolio/internal/pkg/httputils"
	"github.com/gireesh-ai/portfolio/pkg/utils/errors"
)

// AskRequest is the body of POST /api/ask.
type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

// Ask answers a one-shot question against the knowledge base.
func (h *Handler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputils.WriteError(c, errors.ErrEmptyQuestion)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		httputils.WriteError(c, errors.ErrEmptyQuestion)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	result, err := h.service.Ask(ctx, req.Question)
	if err != nil {
		logger.Errorw("Ask pipeline failed", "error", err)
		httputils.WriteError(c, errors.ErrPipelineFailed.WithCause(err))
		return
	}

	httputils.WriteData(c, result)
}
