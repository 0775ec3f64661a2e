package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pickup/gamehub/internal/config"
	"pickup/gamehub/internal/handler/middleware"
	jwtpkg "pickup/gamehub/pkg/jwt"
)

func SetupRouter(
	cfg *config.Config,
	logger *zap.Logger,
	jwtManager *jwtpkg.Manager,
	authHandler *AuthHandler,
	gameHandler *GameHandler,
	locationHandler *LocationHandler,
	profileHandler *ProfileHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// Health check
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	// Public auth routes
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/password/forgot", authHandler.ForgotPassword)
		auth.POST("/password/reset", authHandler.ResetPassword)
	}

	// Public directory
	api.GET("/games", gameHandler.List)
	api.GET("/games/:id", gameHandler.Get)
	api.GET("/locations", locationHandler.List)

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.JWTAuth(jwtManager))
	{
		protected.POST("/auth/logout", authHandler.Logout)

		protected.POST("/games", gameHandler.Create)
		protected.PATCH("/games/:id", gameHandler.Update)
		protected.DELETE("/games/:id", gameHandler.Delete)
		protected.POST("/games/:id/join", gameHandler.Join)

		protected.GET("/profile", profileHandler.Get)
		protected.PATCH("/profile", profileHandler.Update)
		protected.DELETE("/account", profileHandler.DeleteAccount)
	}

	return r
}
