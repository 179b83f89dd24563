package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gireesh-ai/portfolio/internal/pkg/httputils"
	"github.com/gireesh-ai/portfolio/internal/pkg/session"
	"github.com/gireesh-ai/portfolio/internal/portfolio/biz"
	"github.com/gireesh-ai/portfolio/pkg/llm"
	"github.com/gireesh-ai/portfolio/pkg/utils/errors"
)

// ChatMessage is one conversation turn as sent by the client.
type ChatMessage struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// Chat runs the verified-visitor chat assistant. The cookie gate comes
// before anything else: an unverified request is rejected without
// touching the body, the retriever or any model provider.
func (h *Handler) Chat(c *gin.Context) {
	if !session.Verified(c) {
		httputils.WriteGateError(c, errors.ErrUnauthorized)
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputils.WriteGateError(c, errors.ErrNoMessage)
		return
	}

	messages := make([]llm.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, llm.Message{
			Role:    llm.Role(m.Role),
			Content: m.Content,
		})
	}
	if biz.LatestUserMessage(messages) == "" {
		httputils.WriteGateError(c, errors.ErrNoMessage)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	reply := h.service.Chat(ctx, messages)
	c.JSON(http.StatusOK, gin.H{"ok": true, "reply": reply})
}
