// Package middleware provides gin middleware for authentication, rate
// limiting, request IDs and request logging.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/etuni/notify-service/internal/auth"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ServiceSubjectKey is the context key for the authenticated calling system
const ServiceSubjectKey ContextKey = "service_subject"

// ServiceAuthMiddleware authenticates calling systems by service JWT
type ServiceAuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewServiceAuthMiddleware creates a new service auth middleware
func NewServiceAuthMiddleware(jwtService *auth.JWTService) *ServiceAuthMiddleware {
	return &ServiceAuthMiddleware{
		jwtService: jwtService,
	}
}

// Required returns a middleware that requires a valid service token
// Returns 401 Unauthorized if the token is missing or invalid
func (m *ServiceAuthMiddleware) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := m.extractAndValidateToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": err.Error(),
			})
			return
		}

		c.Set(string(ServiceSubjectKey), claims.Subject)
		c.Next()
	}
}

// extractAndValidateToken extracts the bearer token from the request and validates it
func (m *ServiceAuthMiddleware) extractAndValidateToken(c *gin.Context) (*auth.Claims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, errors.New("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, errors.New("invalid authorization header format")
	}

	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return nil, errors.New("missing token")
	}

	return m.jwtService.ValidateToken(tokenString)
}

// GetServiceSubject retrieves the authenticated calling system from the context
func GetServiceSubject(c *gin.Context) (string, error) {
	subject, exists := c.Get(string(ServiceSubjectKey))
	if !exists {
		return "", errors.New("service not authenticated")
	}

	s, ok := subject.(string)
	if !ok {
		return "", errors.New("invalid service subject format")
	}

	return s, nil
}
