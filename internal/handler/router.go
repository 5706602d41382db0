package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"optimeet/meethub/internal/config"
	"optimeet/meethub/internal/handler/middleware"
	jwtpkg "optimeet/meethub/pkg/jwt"
)

func SetupRouter(
	cfg *config.Config,
	logger *zap.Logger,
	jwtManager *jwtpkg.Manager,
	authHandler *AuthHandler,
	sessionHandler *SessionHandler,
	availabilityHandler *AvailabilityHandler,
	readinessHandler *ReadinessHandler,
	optimalHandler *OptimalTimeHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public auth routes
	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}

	// Protected routes
	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth(jwtManager))
	{
		protected.POST("/auth/logout", authHandler.Logout)

		// Sessions
		protected.POST("/sessions", sessionHandler.Create)
		protected.GET("/sessions/:code", sessionHandler.Get)
		protected.GET("/sessions/:code/intervals", availabilityHandler.ListBySession)
		protected.GET("/sessions/:code/resolved", readinessHandler.Resolved)
		protected.GET("/sessions/:code/optimal-times", optimalHandler.Compute)

		// Availability
		protected.POST("/intervals", availabilityHandler.Add)
		protected.GET("/intervals", availabilityHandler.ListOwn)
		protected.DELETE("/intervals/:id", availabilityHandler.Remove)

		// Readiness
		protected.PUT("/users/me/ready", readinessHandler.SetReady)
	}

	// Admin routes (JWT + role check)
	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.JWTAuth(jwtManager))
	admin.Use(middleware.AdminAuth())
	{
		admin.POST("/sessions/:code/extend", sessionHandler.Extend)
		admin.DELETE("/sessions/expired", sessionHandler.PurgeExpired)
		admin.DELETE("/intervals/:id", availabilityHandler.RemoveAny)
	}

	return r
}
