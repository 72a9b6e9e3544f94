// Package auth provides reset token generation and the service tokens that
// authenticate calling systems.
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
)

const (
	// DefaultTokenLength is the byte length of reset token values (256 bits)
	DefaultTokenLength = 32
	// MinTokenLength is the shortest value accepted as a reset credential (128 bits)
	MinTokenLength = 16
)

var (
	// ErrTokenGeneration is returned when token generation fails
	ErrTokenGeneration = errors.New("failed to generate token")
	// ErrTokenTooShort is returned for lengths below MinTokenLength
	ErrTokenTooShort = errors.New("token length below minimum entropy")
)

// GenerateSecureToken returns a reset token value: DefaultTokenLength bytes
// from crypto/rand, base64url-encoded without padding so it can be placed
// in a query string as is.
func GenerateSecureToken() (string, error) {
	return GenerateSecureTokenWithLength(DefaultTokenLength)
}

// GenerateSecureTokenWithLength is GenerateSecureToken with a caller-chosen
// byte length of at least MinTokenLength.
func GenerateSecureTokenWithLength(length int) (string, error) {
	if length < MinTokenLength {
		return "", fmt.Errorf("%w: %w (%d < %d bytes)", ErrTokenGeneration, ErrTokenTooShort, length, MinTokenLength)
	}

	raw := make([]byte, length)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	return base64.RawURLEncoding.EncodeToString(raw), nil
}
