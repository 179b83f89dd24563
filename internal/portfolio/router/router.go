// Package router wires the portfolio API routes.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/gireesh-ai/portfolio/internal/pkg/middleware"
	"github.com/gireesh-ai/portfolio/internal/portfolio/handler"
)

// New builds the gin engine with the standard middleware chain and all
// API routes registered.
func New(h *handler.Handler, cors middleware.CORSConfig) *gin.Engine {
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.CORSWithConfig(cors),
	)

	Register(engine, h)
	return engine
}

// Register attaches the portfolio routes to the engine.
func Register(engine *gin.Engine, h *handler.Handler) {
	engine.GET("/healthz", h.Healthz)
	engine.GET("/metrics", h.Metrics)

	api := engine.Group("/api")
	{
		api.POST("/ask", h.Ask)
		api.POST("/chat", h.Chat)
		api.GET("/me", h.Me)
		api.POST("/send-otp", h.SendOTP)
		api.POST("/verify-otp", h.VerifyOTP)
		api.POST("/resume-request", h.RequestResume)
	}

	logger.Infow("HTTP routes registered", "routes", len(engine.Routes()))
}
