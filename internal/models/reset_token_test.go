package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetToken_IsValidAt(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		token ResetToken
		want  bool
	}{
		{
			name:  "fresh unused token",
			token: ResetToken{ExpiresAt: now.Add(30 * time.Minute)},
			want:  true,
		},
		{
			name:  "used token",
			token: ResetToken{ExpiresAt: now.Add(30 * time.Minute), Used: true},
			want:  false,
		},
		{
			name:  "expired token",
			token: ResetToken{ExpiresAt: now.Add(-time.Second)},
			want:  false,
		},
		{
			name:  "expires exactly now",
			token: ResetToken{ExpiresAt: now},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.token.IsValidAt(now))
		})
	}
}

func TestResetToken_IsValid(t *testing.T) {
	valid := &ResetToken{ExpiresAt: time.Now().Add(time.Hour)}
	assert.True(t, valid.IsValid())
	assert.False(t, valid.IsExpired())

	expired := &ResetToken{ExpiresAt: time.Now().Add(-time.Hour)}
	assert.False(t, expired.IsValid())
	assert.True(t, expired.IsExpired())
}

func TestResetToken_JSONHidesValue(t *testing.T) {
	token := ResetToken{
		ID:        uuid.New(),
		Value:     "secret-token-value",
		UserID:    7,
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}

	data, err := json.Marshal(token)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "secret-token-value")
	assert.Contains(t, string(data), `"userId":7`)
}
