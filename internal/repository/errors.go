package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrUserNotFound is returned when no account matches the lookup
	ErrUserNotFound = errors.New("user not found")
	// ErrResetTokenNotFound is returned when no reset token matches the value
	ErrResetTokenNotFound = errors.New("reset token not found")
	// ErrDuplicateResetToken is returned when a token value is already held
	// by another account
	ErrDuplicateResetToken = errors.New("reset token value already in use")
)

// StoreError reports a persistence failure. Callers must assume the
// operation had no effect.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying driver error
func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// IsStoreError reports whether err wraps a StoreError
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
