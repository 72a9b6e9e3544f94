// Package server provides HTTP server setup and configuration.
package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/etuni/notify-service/internal/auth"
	"github.com/etuni/notify-service/internal/config"
	"github.com/etuni/notify-service/internal/email"
	"github.com/etuni/notify-service/internal/handlers"
	"github.com/etuni/notify-service/internal/middleware"
)

// Notifier is the asynchronous email sender the routes hand messages to
type Notifier interface {
	email.Notifier
	handlers.StatsProvider
}

// Dependencies holds all dependencies needed to create a server
type Dependencies struct {
	Config   *config.Config
	DB       handlers.HealthChecker // Optional: nil reports not_configured
	Resets   handlers.ResetService
	Notifier Notifier
	Logger   *zap.Logger
}

// New creates a new Gin router with all routes configured
func New(deps *Dependencies) *gin.Engine {
	// Release mode keeps gin's colored debug output out of the logs
	gin.SetMode(gin.ReleaseMode)

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger.Named("http"), "/health"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Encoding", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.NewRateLimitMiddleware())
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithDecompressFn(gzip.DefaultDecompressHandle)))

	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Notifier)
	authHandler := handlers.NewAuthHandler(deps.Resets, logger).
		WithResponseFloor(deps.Config.Reset.ResponseFloor)
	emailHandler := handlers.NewEmailHandler(deps.Notifier, logger)

	router.GET("/health", healthHandler.Check)

	// Auth routes (with stricter rate limiting)
	authGroup := router.Group("/auth")
	authGroup.Use(middleware.NewAuthRateLimitMiddleware())
	{
		authGroup.POST("/forgot-password", authHandler.ForgotPassword)
		authGroup.GET("/reset-password/validate", authHandler.ValidateResetToken)
	}

	// The relay is open unless a service token secret is configured
	relay := router.Group("/email")
	if deps.Config.Relay.JWTSecret != "" {
		serviceAuth := middleware.NewServiceAuthMiddleware(auth.NewJWTService(deps.Config.Relay.JWTSecret))
		relay.Use(serviceAuth.Required())
	}
	relay.POST("/send", emailHandler.Send)

	return router
}
