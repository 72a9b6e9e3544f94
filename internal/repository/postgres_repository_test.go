package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/etuni/notify-service/internal/database"
)

// setupTestDB starts a PostgreSQL container, creates the externally owned
// users table and applies this service's migrations
func setupTestDB(t *testing.T) (*database.DB, func()) {
	t.Helper()

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_etuni"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_pass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2*time.Minute)),
	)
	if err != nil {
		t.Fatalf("Failed to start container: %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	sqlDB, err := sql.Open("pgx", connStr)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	db := &database.DB{DB: sqlDB}

	if _, err := db.ExecContext(ctx, usersTableDDL); err != nil {
		t.Fatalf("Failed to create users table: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	cleanup := func() {
		db.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return db, cleanup
}

// usersTableDDL mirrors the account system's table
const usersTableDDL = `
	CREATE TABLE users (
		id BIGSERIAL PRIMARY KEY,
		full_name VARCHAR(255),
		email VARCHAR(255) NOT NULL UNIQUE
	)`

func insertUser(t *testing.T, db *database.DB, fullName, email string) int64 {
	t.Helper()

	var id int64
	err := db.QueryRowContext(context.Background(),
		`INSERT INTO users (full_name, email) VALUES ($1, $2) RETURNING id`,
		sql.NullString{String: fullName, Valid: fullName != ""}, email,
	).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to insert user %s: %v", email, err)
	}
	return id
}

func countResetTokens(t *testing.T, db *database.DB, userID int64) int {
	t.Helper()

	var n int
	err := db.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM password_reset_tokens WHERE user_id = $1`, userID,
	).Scan(&n)
	if err != nil {
		t.Fatalf("Failed to count tokens: %v", err)
	}
	return n
}
