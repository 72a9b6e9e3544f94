package repository

import (
	"context"
	"strings"

	"github.com/etuni/notify-service/internal/models"
)

// MockUserRepository is a mock implementation of UserRepository for testing
type MockUserRepository struct {
	GetByEmailFunc func(ctx context.Context, email string) (*models.User, error)
}

// NewMockUserRepository creates a mock user repository that knows users.
// Lookups match the trimmed address case-insensitively, like the Postgres
// implementation.
func NewMockUserRepository(users ...models.User) *MockUserRepository {
	byEmail := make(map[string]models.User, len(users))
	for _, u := range users {
		byEmail[strings.ToLower(u.Email)] = u
	}

	return &MockUserRepository{
		GetByEmailFunc: func(_ context.Context, email string) (*models.User, error) {
			u, ok := byEmail[strings.ToLower(strings.TrimSpace(email))]
			if !ok {
				return nil, ErrUserNotFound
			}
			return &u, nil
		},
	}
}

// GetByEmail implements UserRepository.GetByEmail
func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.GetByEmailFunc(ctx, email)
}
