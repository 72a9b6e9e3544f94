package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/etuni/notify-service/internal/models"
)

// MockResetTokenRepository is a mock implementation of ResetTokenRepository for testing.
// The default funcs keep an in-memory table with upsert semantics.
type MockResetTokenRepository struct {
	IssueOrReplaceFunc func(ctx context.Context, userID int64, value string, expiresAt time.Time) (*models.ResetToken, error)
	GetByValueFunc     func(ctx context.Context, value string) (*models.ResetToken, error)

	mu     sync.Mutex
	byUser map[int64]*models.ResetToken
}

// NewMockResetTokenRepository creates a new mock reset token repository
func NewMockResetTokenRepository() *MockResetTokenRepository {
	m := &MockResetTokenRepository{byUser: make(map[int64]*models.ResetToken)}
	m.IssueOrReplaceFunc = m.issueOrReplace
	m.GetByValueFunc = m.getByValue
	return m
}

// IssueOrReplace implements ResetTokenRepository.IssueOrReplace
func (m *MockResetTokenRepository) IssueOrReplace(
	ctx context.Context, userID int64, value string, expiresAt time.Time,
) (*models.ResetToken, error) {
	return m.IssueOrReplaceFunc(ctx, userID, value, expiresAt)
}

// GetByValue implements ResetTokenRepository.GetByValue
func (m *MockResetTokenRepository) GetByValue(ctx context.Context, value string) (*models.ResetToken, error) {
	return m.GetByValueFunc(ctx, value)
}

// TokenFor returns a copy of the stored token for userID, if any
func (m *MockResetTokenRepository) TokenFor(userID int64) (models.ResetToken, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.byUser[userID]
	if !ok {
		return models.ResetToken{}, false
	}
	return *t, true
}

// Len returns the number of stored tokens
func (m *MockResetTokenRepository) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byUser)
}

func (m *MockResetTokenRepository) issueOrReplace(
	_ context.Context, userID int64, value string, expiresAt time.Time,
) (*models.ResetToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for owner, held := range m.byUser {
		if owner != userID && held.Value == value {
			return nil, ErrDuplicateResetToken
		}
	}

	now := time.Now()
	t, ok := m.byUser[userID]
	if !ok {
		t = &models.ResetToken{ID: uuid.New(), UserID: userID, CreatedAt: now}
		m.byUser[userID] = t
	}
	t.Value = value
	t.ExpiresAt = expiresAt
	t.Used = false
	t.UpdatedAt = now

	out := *t
	return &out, nil
}

func (m *MockResetTokenRepository) getByValue(_ context.Context, value string) (*models.ResetToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.byUser {
		if t.Value == value {
			out := *t
			return &out, nil
		}
	}
	return nil, ErrResetTokenNotFound
}
