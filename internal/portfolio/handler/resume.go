package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gireesh-ai/portfolio/internal/pkg/httputils"
	"github.com/gireesh-ai/portfolio/pkg/utils/errors"
)

// ResumeRequest is the body of POST /api/resume-request.
type ResumeRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=120"`
	Email string `json:"email" binding:"required,email"`
}

// RequestResume records who asked for the resume.
func (h *Handler) RequestResume(c *gin.Context) {
	var req ResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputils.WriteGateError(c, errors.ErrInvalidParam.WithMessage("Name and a valid email are required"))
		return
	}

	if err := h.service.RequestResume(c.Request.Context(), req.Name, req.Email); err != nil {
		httputils.WriteGateError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
