package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/etuni/notify-service/internal/middleware"
)

// ForgotPasswordMessage is returned whether or not the account exists
const ForgotPasswordMessage = "If user exists, email sent."

// ResetService is the password reset workflow used by AuthHandler
type ResetService interface {
	RequestReset(ctx context.Context, email string) error
	ValidateToken(ctx context.Context, value string) (bool, error)
}

// AuthHandler handles password reset requests
type AuthHandler struct {
	resets        ResetService
	logger        *zap.Logger
	responseFloor time.Duration
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(resets ResetService, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{
		resets: resets,
		logger: logger,
	}
}

// WithResponseFloor pads forgot-password responses to at least d so
// response timing does not reveal whether the account exists
func (h *AuthHandler) WithResponseFloor(d time.Duration) *AuthHandler {
	h.responseFloor = d
	return h
}

// ForgotPasswordRequest represents the forgot password request body
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ValidateResetTokenResponse reports whether a reset token can be used
type ValidateResetTokenResponse struct {
	Valid bool `json:"valid"`
}

// ForgotPassword issues a reset token and queues the reset email
// POST /auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	start := time.Now()

	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid_request", "Invalid request body: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	err := h.resets.RequestReset(ctx, req.Email)
	h.waitForFloor(ctx, start)

	if err != nil {
		h.logger.Error("password reset request failed",
			zap.String("request_id", c.GetString(middleware.RequestIDKey)),
			zap.Error(err),
		)
		abortWithError(c, http.StatusInternalServerError, "internal_error", "Failed to process password reset request")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: ForgotPasswordMessage})
}

// ValidateResetToken reports whether a reset token is still usable
// GET /auth/reset-password/validate?token=...
func (h *AuthHandler) ValidateResetToken(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		abortWithError(c, http.StatusBadRequest, "invalid_request", "token query parameter is required")
		return
	}

	valid, err := h.resets.ValidateToken(c.Request.Context(), token)
	if err != nil {
		h.logger.Error("reset token validation failed",
			zap.String("request_id", c.GetString(middleware.RequestIDKey)),
			zap.Error(err),
		)
		abortWithError(c, http.StatusInternalServerError, "internal_error", "Failed to validate reset token")
		return
	}

	c.JSON(http.StatusOK, ValidateResetTokenResponse{Valid: valid})
}

// waitForFloor blocks until responseFloor has elapsed since start or ctx ends
func (h *AuthHandler) waitForFloor(ctx context.Context, start time.Time) {
	remaining := h.responseFloor - time.Since(start)
	if remaining <= 0 {
		return
	}

	timer := time.NewTimer(remaining)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
