package repository

import (
	"context"
	"time"

	"github.com/etuni/notify-service/internal/models"
)

// ResetTokenRepository defines the interface for password reset token storage
type ResetTokenRepository interface {
	// IssueOrReplace stores value as the user's only reset token, replacing
	// any previous one and clearing its used flag. Concurrent calls for the
	// same user leave exactly one of the values live.
	IssueOrReplace(ctx context.Context, userID int64, value string, expiresAt time.Time) (*models.ResetToken, error)

	// GetByValue retrieves a reset token by its value.
	// Returns ErrResetTokenNotFound when no row matches.
	GetByValue(ctx context.Context, value string) (*models.ResetToken, error)
}
