// Package httputils provides HTTP response helpers.
package httputils

import (
	"github.com/gin-gonic/gin"

	"github.com/gireesh-ai/portfolio/pkg/utils/errors"
)

// WriteData writes a 200 response with the given payload.
func WriteData(c *gin.Context, data interface{}) {
	c.JSON(200, data)
}

// WriteError writes an error as {"error": message} with the Errno status.
// Non-Errno errors map to a generic 500.
func WriteError(c *gin.Context, err error) {
	errno := errors.FromError(err)
	c.JSON(errno.HTTPStatus(), gin.H{"error": errno.Message()})
}

// WriteGateError writes an error as {"ok": false, "error": message} with the
// Errno status. Used by the endpoints that carry the ok flag.
func WriteGateError(c *gin.Context, err error) {
	errno := errors.FromError(err)
	c.JSON(errno.HTTPStatus(), gin.H{"ok": false, "error": errno.Message()})
}
