// internal/app/router.go
package app

import (
	"github.com/gin-gonic/gin"

	authHandler "vantage-console/internal/handlers/auth"
	"vantage-console/internal/middleware"
)

type Handlers struct {
	AuthHandler *authHandler.AuthHandler
}

// SetupRouter mounts the gate ahead of every routed path and registers the
// authentication endpoints. The gate's route policy keeps the auth API and
// the public pages reachable without a session; everything else redirects.
func SetupRouter(r *gin.Engine, gate *middleware.SessionGate, h *Handlers) {
	r.Use(gate.Handle())

	// ==================== Health Check ====================
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== Auth Routes ====================
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", h.AuthHandler.Login)
		auth.POST("/logout", h.AuthHandler.Logout)
		auth.GET("/me", h.AuthHandler.Me)
		auth.POST("/setpassword", h.AuthHandler.SetPassword)
	}
}
