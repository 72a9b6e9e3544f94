package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/etuni/notify-service/internal/database"
	"github.com/etuni/notify-service/internal/models"
)

// PostgresResetTokenRepository implements ResetTokenRepository using PostgreSQL
type PostgresResetTokenRepository struct {
	db *sql.DB
}

// NewPostgresResetTokenRepository creates a new PostgreSQL reset token repository
func NewPostgresResetTokenRepository(db *sql.DB) *PostgresResetTokenRepository {
	return &PostgresResetTokenRepository{db: db}
}

const resetTokenColumns = `id, token, user_id, expiry_date, used, created_at, updated_at`

// IssueOrReplace upserts the user's reset token in a single statement.
// The row id is kept across overwrites. A user removed since lookup yields
// ErrUserNotFound.
func (r *PostgresResetTokenRepository) IssueOrReplace(
	ctx context.Context, userID int64, value string, expiresAt time.Time,
) (*models.ResetToken, error) {
	query := `
		INSERT INTO password_reset_tokens (id, token, user_id, expiry_date, used, created_at, updated_at)
		VALUES ($1, $2, $3, $4, FALSE, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			token = EXCLUDED.token,
			expiry_date = EXCLUDED.expiry_date,
			used = FALSE,
			updated_at = NOW()
		RETURNING ` + resetTokenColumns

	token, err := scanResetToken(r.db.QueryRowContext(ctx, query, uuid.New(), value, userID, expiresAt))
	if err != nil {
		switch {
		case database.IsForeignKeyViolation(err):
			return nil, ErrUserNotFound
		case database.IsUniqueViolation(err):
			return nil, ErrDuplicateResetToken
		}
		return nil, storeError("issue reset token", err)
	}

	return token, nil
}

// GetByValue retrieves a reset token by its value
func (r *PostgresResetTokenRepository) GetByValue(ctx context.Context, value string) (*models.ResetToken, error) {
	query := `SELECT ` + resetTokenColumns + ` FROM password_reset_tokens WHERE token = $1`

	token, err := scanResetToken(r.db.QueryRowContext(ctx, query, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResetTokenNotFound
		}
		return nil, storeError("get reset token", err)
	}

	return token, nil
}

func scanResetToken(row *sql.Row) (*models.ResetToken, error) {
	var token models.ResetToken
	err := row.Scan(
		&token.ID,
		&token.Value,
		&token.UserID,
		&token.ExpiresAt,
		&token.Used,
		&token.CreatedAt,
		&token.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &token, nil
}
