package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/etuni/notify-service/internal/models"
)

// PostgresUserRepository implements UserRepository using PostgreSQL
type PostgresUserRepository struct {
	db *sql.DB
}

// NewPostgresUserRepository creates a new PostgreSQL user repository
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// GetByEmail retrieves a user by their email address. Matching ignores case.
// If accounts differ only in case, an exact match wins, then the oldest id.
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, COALESCE(full_name, ''), email
		FROM users
		WHERE LOWER(email) = LOWER($1)
		ORDER BY (email = $1) DESC, id
		LIMIT 1
	`

	var user models.User
	err := r.db.QueryRowContext(ctx, query, strings.TrimSpace(email)).Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, storeError("get user by email", err)
	}

	return &user, nil
}
