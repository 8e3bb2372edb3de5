// Package repository provides persistence implementations for account and
// document services using a PostgreSQL database.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/reelplan/reelplan/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("repository: not found")

// PostgresAuthRepository implements account and session persistence
// against a PostgreSQL database.
type PostgresAuthRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAuthRepository creates a new PostgresAuthRepository with the
// given database connection.
func NewPostgresAuthRepository(db *sql.DB) *PostgresAuthRepository {
	return &PostgresAuthRepository{DB: db}
}

// EmailExists checks whether an account with the given email exists.
func (r *PostgresAuthRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`,
		email,
	).Scan(&exists)
	return exists, err
}

// CreateAccount inserts a new account row.
func (r *PostgresAuthRepository) CreateAccount(ctx context.Context, acc models.Account) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, display_name, avatar_ref)
		VALUES ($1, $2, $3, $4, $5)
	`, acc.ID, acc.Email, acc.PasswordHash, acc.DisplayName, acc.AvatarRef)
	if err != nil {
		return fmt.Errorf("CreateAccount: %w", err)
	}
	return nil
}

// AccountByEmail fetches the account with the given email.
// Returns ErrNotFound when no such account exists.
func (r *PostgresAuthRepository) AccountByEmail(ctx context.Context, email string) (models.Account, error) {
	var acc models.Account
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, email, password_hash, display_name, avatar_ref FROM users WHERE email = $1
	`, email).Scan(&acc.ID, &acc.Email, &acc.PasswordHash, &acc.DisplayName, &acc.AvatarRef)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, ErrNotFound
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("AccountByEmail: %w", err)
	}
	return acc, nil
}

// SaveSession stores a bearer token for the given account.
func (r *PostgresAuthRepository) SaveSession(ctx context.Context, token, userID string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO sessions (token, user_id) VALUES ($1, $2)
	`, token, userID)
	if err != nil {
		return fmt.Errorf("SaveSession: %w", err)
	}
	return nil
}

// AccountByToken resolves a bearer token to its account.
// Returns ErrNotFound for unknown or revoked tokens.
func (r *PostgresAuthRepository) AccountByToken(ctx context.Context, token string) (models.Account, error) {
	var acc models.Account
	err := r.DB.QueryRowContext(ctx, `
		SELECT u.id, u.email, u.password_hash, u.display_name, u.avatar_ref
		  FROM sessions s JOIN users u ON u.id = s.user_id
		 WHERE s.token = $1
	`, token).Scan(&acc.ID, &acc.Email, &acc.PasswordHash, &acc.DisplayName, &acc.AvatarRef)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, ErrNotFound
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("AccountByToken: %w", err)
	}
	return acc, nil
}

// DeleteSession revokes a bearer token. Revoking an unknown token is a
// no-op.
func (r *PostgresAuthRepository) DeleteSession(ctx context.Context, token string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("DeleteSession: %w", err)
	}
	return nil
}
