package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gireesh-ai/portfolio/internal/pkg/httputils"
	"github.com/gireesh-ai/portfolio/pkg/utils/errors"
)

// SendOTPRequest is the body of POST /api/send-otp.
type SendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"omitempty,max=100"`
}

// VerifyOTPRequest is the body of POST /api/verify-otp.
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6,numeric"`
}

// SendOTP issues a verification code to the given email. Validation runs
// before the store or any mail provider is touched.
func (h *Handler) SendOTP(c *gin.Context) {
	var req SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputils.WriteGateError(c, errors.ErrInvalidParam.WithMessage("A valid email is required"))
		return
	}

	if err := h.service.SendOTP(c.Request.Context(), req.Email, strings.TrimSpace(req.Name)); err != nil {
		httputils.WriteGateError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// VerifyOTP exchanges a valid code for the verification cookies. All code
// failures share one uniform unauthorized message.
func (h *Handler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputils.WriteGateError(c, errors.ErrInvalidParam.WithMessage("Email and a 6-digit code are required"))
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	name, err := h.service.VerifyOTP(c.Request.Context(), email, req.OTP)
	if err != nil {
		httputils.WriteGateError(c, err)
		return
	}

	h.session.Issue(c, email, name)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
