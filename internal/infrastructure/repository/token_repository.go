package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/auth"
	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/domain"
)

type tokenRepository struct {
	db *sql.DB
}

// NewTokenRepository builds the Postgres refresh-token repository.
func NewTokenRepository(db *sql.DB) domain.TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Store(ctx context.Context, t *domain.StaffToken) error {
	query := `
		INSERT INTO staff_tokens (id, staff_id, token_hash, expires_at, revoked, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.StaffID, t.TokenHash, t.ExpiresAt, t.Revoked, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting refresh token: %w", err)
	}
	return nil
}

func (r *tokenRepository) GetByHash(ctx context.Context, hash string) (*domain.StaffToken, error) {
	query := `
		SELECT id, staff_id, token_hash, expires_at, revoked, created_at
		FROM staff_tokens
		WHERE token_hash = $1`

	var t domain.StaffToken
	err := r.db.QueryRowContext(ctx, query, hash).Scan(
		&t.ID, &t.StaffID, &t.TokenHash, &t.ExpiresAt, &t.Revoked, &t.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, auth.ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("scanning refresh token: %w", err)
	}
	return &t, nil
}

func (r *tokenRepository) Revoke(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE staff_tokens SET revoked = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("revoking refresh token: %w", err)
	}
	return requireAffected(result, auth.ErrInvalidToken)
}

func (r *tokenRepository) RevokeAllForStaff(ctx context.Context, staffID string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE staff_tokens SET revoked = TRUE WHERE staff_id = $1`, staffID)
	if err != nil {
		return fmt.Errorf("revoking staff tokens: %w", err)
	}
	return nil
}

func (r *tokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM staff_tokens WHERE expires_at < $1 OR revoked = TRUE`, now)
	if err != nil {
		return 0, fmt.Errorf("deleting expired tokens: %w", err)
	}
	return result.RowsAffected()
}
