package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gireesh-ai/portfolio/internal/pkg/session"
)

// Me reports the verified identity from the request cookies. Both fields
// are null for unverified visitors.
func (h *Handler) Me(c *gin.Context) {
	email, name := session.Identity(c)

	resp := gin.H{"email": nil, "name": nil}
	if email != "" {
		resp["email"] = email
	}
	if name != "" {
		resp["name"] = name
	}
	c.JSON(http.StatusOK, resp)
}
