package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// NewRateLimitMiddleware creates the general rate limiting middleware.
// It allows 100 requests per minute per IP address.
func NewRateLimitMiddleware() gin.HandlerFunc {
	return NewRateLimitMiddlewareWithConfig(100, time.Minute)
}

// NewAuthRateLimitMiddleware creates a stricter rate limiting middleware for auth endpoints.
// It allows 10 requests per minute per IP address (vs 100/min for general endpoints).
func NewAuthRateLimitMiddleware() gin.HandlerFunc {
	return NewRateLimitMiddlewareWithConfig(10, time.Minute)
}

// NewRateLimitMiddlewareWithConfig creates a rate limiting middleware with custom configuration.
// Each call gets its own in-memory store.
func NewRateLimitMiddlewareWithConfig(limit int64, period time.Duration) gin.HandlerFunc {
	rate := limiter.Rate{
		Period: period,
		Limit:  limit,
	}

	store := memory.NewStore()
	instance := limiter.New(store, rate)

	return mgin.NewMiddleware(instance)
}
