package repository

import (
	"context"

	"github.com/etuni/notify-service/internal/models"
)

// UserRepository defines read access to the externally owned accounts table
type UserRepository interface {
	// GetByEmail retrieves a user by email address, ignoring case.
	// Returns ErrUserNotFound when no account matches.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
