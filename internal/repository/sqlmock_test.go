package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var resetTokenRowColumns = []string{"id", "token", "user_id", "expiry_date", "used", "created_at", "updated_at"}

func newSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db, mock
}

func TestPostgresUserRepository_GetByEmail_SQL(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewPostgresUserRepository(db)

	mock.ExpectQuery(`SELECT id, COALESCE\(full_name, ''\), email\s+FROM users\s+WHERE LOWER\(email\) = LOWER\(\$1\)\s+ORDER BY \(email = \$1\) DESC, id\s+LIMIT 1`).
		WithArgs("alice@etuni.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "email"}).
			AddRow(int64(7), "Alice", "alice@etuni.com"))

	user, err := repo.GetByEmail(context.Background(), "  alice@etuni.com ")
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "Alice", user.FullName)
	assert.Equal(t, "alice@etuni.com", user.Email)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_GetByEmail_NoRows(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewPostgresUserRepository(db)

	mock.ExpectQuery("FROM users").
		WithArgs("nobody@etuni.com").
		WillReturnError(sql.ErrNoRows)

	user, err := repo.GetByEmail(context.Background(), "nobody@etuni.com")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.False(t, IsStoreError(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_GetByEmail_DriverError(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewPostgresUserRepository(db)

	driverErr := errors.New("connection reset by peer")
	mock.ExpectQuery("FROM users").WillReturnError(driverErr)

	user, err := repo.GetByEmail(context.Background(), "alice@etuni.com")
	assert.Nil(t, user)

	var se *StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "get user by email", se.Op)
	assert.ErrorIs(t, err, driverErr)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresResetTokenRepository_IssueOrReplace_SQL(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewPostgresResetTokenRepository(db)

	id := uuid.New()
	now := time.Now().UTC()
	expiresAt := now.Add(30 * time.Minute)

	mock.ExpectQuery(`INSERT INTO password_reset_tokens .* ON CONFLICT \(user_id\) DO UPDATE SET .* RETURNING`).
		WithArgs(sqlmock.AnyArg(), "new-value", int64(7), expiresAt).
		WillReturnRows(sqlmock.NewRows(resetTokenRowColumns).
			AddRow(id.String(), "new-value", int64(7), expiresAt, false, now.Add(-time.Hour), now))

	token, err := repo.IssueOrReplace(context.Background(), 7, "new-value", expiresAt)
	require.NoError(t, err)
	assert.Equal(t, id, token.ID)
	assert.Equal(t, "new-value", token.Value)
	assert.Equal(t, int64(7), token.UserID)
	assert.Equal(t, expiresAt, token.ExpiresAt)
	assert.False(t, token.Used)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresResetTokenRepository_IssueOrReplace_DriverError(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewPostgresResetTokenRepository(db)

	driverErr := errors.New("connection reset by peer")
	mock.ExpectQuery("INSERT INTO password_reset_tokens").WillReturnError(driverErr)

	token, err := repo.IssueOrReplace(context.Background(), 99, "value", time.Now().Add(30*time.Minute))
	assert.Nil(t, token)
	assert.True(t, IsStoreError(err))
	assert.ErrorIs(t, err, driverErr)
	assert.Contains(t, err.Error(), "issue reset token")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresResetTokenRepository_IssueOrReplace_ConstraintViolations(t *testing.T) {
	tests := []struct {
		name    string
		pgErr   *pgconn.PgError
		wantErr error
	}{
		{
			name:    "user removed",
			pgErr:   &pgconn.PgError{Code: "23503", ConstraintName: "password_reset_tokens_user_id_fkey"},
			wantErr: ErrUserNotFound,
		},
		{
			name:    "value held by another user",
			pgErr:   &pgconn.PgError{Code: "23505", ConstraintName: "uq_password_reset_tokens_token"},
			wantErr: ErrDuplicateResetToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newSQLMock(t)
			repo := NewPostgresResetTokenRepository(db)

			mock.ExpectQuery("INSERT INTO password_reset_tokens").WillReturnError(tt.pgErr)

			token, err := repo.IssueOrReplace(context.Background(), 7, "value", time.Now().Add(30*time.Minute))
			assert.Nil(t, token)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.False(t, IsStoreError(err))

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresResetTokenRepository_GetByValue_SQL(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewPostgresResetTokenRepository(db)

	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, token, user_id, expiry_date, used, created_at, updated_at FROM password_reset_tokens WHERE token = \$1`).
		WithArgs("abc").
		WillReturnRows(sqlmock.NewRows(resetTokenRowColumns).
			AddRow(id.String(), "abc", int64(3), now.Add(time.Minute), true, now, now))

	token, err := repo.GetByValue(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, id, token.ID)
	assert.True(t, token.Used)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresResetTokenRepository_GetByValue_NotFound(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewPostgresResetTokenRepository(db)

	mock.ExpectQuery("FROM password_reset_tokens").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(resetTokenRowColumns))

	token, err := repo.GetByValue(context.Background(), "missing")
	assert.Nil(t, token)
	assert.ErrorIs(t, err, ErrResetTokenNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreError(t *testing.T) {
	inner := errors.New("boom")
	err := storeError("issue reset token", inner)

	assert.EqualError(t, err, "issue reset token: boom")
	assert.ErrorIs(t, err, inner)
	assert.True(t, IsStoreError(err))
	assert.False(t, IsStoreError(inner))
	assert.False(t, IsStoreError(nil))
}
