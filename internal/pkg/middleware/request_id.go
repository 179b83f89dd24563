// Package middleware provides gin middleware for the portfolio backend.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
)

// HeaderXRequestID is the request ID header name.
const HeaderXRequestID = "X-Request-ID"

// requestIDKey is the gin context key for the request ID.
const requestIDKey = "request_id"

// RequestID returns a middleware that tags each request with a unique ID.
// An incoming X-Request-ID header is honored, otherwise a ULID is minted.
// The ID is echoed on the response and stored in the gin context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderXRequestID)
		if requestID == "" {
			requestID = ulid.Make().String()
		}

		c.Header(HeaderXRequestID, requestID)
		c.Set(requestIDKey, requestID)

		c.Next()
	}
}

// GetRequestID returns the request ID from the gin context.
// Returns empty string if not set.
func GetRequestID(c *gin.Context) string {
	if id, ok := c.Get(requestIDKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
