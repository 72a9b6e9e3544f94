// Package models defines the data types shared by repositories, the reset
// workflow and the HTTP handlers.
package models

import (
	"time"

	"github.com/google/uuid"
)

// ResetToken is the single password reset credential held for a user.
// A reissue overwrites Value, ExpiresAt and Used on the same row.
type ResetToken struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Value     string    `json:"-" db:"token"` // Never expose in JSON
	UserID    int64     `json:"userId" db:"user_id"`
	ExpiresAt time.Time `json:"expiresAt" db:"expiry_date"`
	Used      bool      `json:"used" db:"used"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// IsValid checks if the token can still be consumed
func (t *ResetToken) IsValid() bool {
	return t.IsValidAt(time.Now())
}

// IsValidAt checks if the token can be consumed at the given instant
func (t *ResetToken) IsValidAt(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}

// IsExpired checks if the token has expired
func (t *ResetToken) IsExpired() bool {
	return !time.Now().Before(t.ExpiresAt)
}
