package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inquizitor/inquizitor-backend/internal/model"
)

// TokenRepository handles pending verifications, refresh tokens and
// password reset tokens. All tokens are stored hashed.
type TokenRepository struct {
	pool *pgxpool.Pool
}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

// ─── Pending e-mail verification ─────────────────────────────────────

// UpsertPending replaces any pending registration for the same e-mail.
func (r *TokenRepository) UpsertPending(ctx context.Context, p *model.PendingVerification) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO pending_email_verifications (email, name, password_hash, token_hash, expires_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (email) DO UPDATE
		 SET name = EXCLUDED.name,
		     password_hash = EXCLUDED.password_hash,
		     token_hash = EXCLUDED.token_hash,
		     expires_at = EXCLUDED.expires_at,
		     created_at = NOW()
		 RETURNING id, created_at`,
		p.Email, p.Name, p.PasswordHash, p.TokenHash, p.ExpiresAt,
	).Scan(&p.ID, &p.CreatedAt)
}

// GetPendingByTokenHash retrieves a non-expired pending registration.
func (r *TokenRepository) GetPendingByTokenHash(ctx context.Context, tokenHash string) (*model.PendingVerification, error) {
	var p model.PendingVerification
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash, token_hash, expires_at, created_at
		 FROM pending_email_verifications
		 WHERE token_hash = $1 AND expires_at > NOW()`, tokenHash,
	).Scan(&p.ID, &p.Email, &p.Name, &p.PasswordHash, &p.TokenHash, &p.ExpiresAt, &p.CreatedAt)
	if err != nil {
		return nil, wrapNoRows(err)
	}
	return &p, nil
}

// DeletePending removes a pending registration after use.
func (r *TokenRepository) DeletePending(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM pending_email_verifications WHERE id = $1`, id)
	return err
}

// ─── Refresh tokens ──────────────────────────────────────────────────

// CreateRefresh inserts a new refresh token row.
func (r *TokenRepository) CreateRefresh(ctx context.Context, t *model.RefreshToken) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		t.UserID, t.TokenHash, t.ExpiresAt,
	).Scan(&t.ID, &t.CreatedAt)
}

// GetRefreshByHash retrieves an active (non-revoked, non-expired) token.
func (r *TokenRepository) GetRefreshByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	var t model.RefreshToken
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, token_hash, expires_at, revoked_at, created_at
		 FROM refresh_tokens
		 WHERE token_hash = $1 AND revoked_at IS NULL AND expires_at > NOW()`, tokenHash,
	).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.RevokedAt, &t.CreatedAt)
	if err != nil {
		return nil, wrapNoRows(err)
	}
	return &t, nil
}

// RevokeRefresh marks one token revoked.
func (r *TokenRepository) RevokeRefresh(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked_at = NOW() WHERE id = $1 AND revoked_at IS NULL`, id)
	return err
}

// RevokeAllForUser revokes every active token of one user.
func (r *TokenRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked_at = NOW() WHERE user_id = $1 AND revoked_at IS NULL`, userID)
	return err
}

// ─── Password reset tokens ───────────────────────────────────────────

// CreatePasswordReset inserts a new reset token row.
func (r *TokenRepository) CreatePasswordReset(ctx context.Context, t *model.PasswordResetToken) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO password_reset_tokens (user_id, token_hash, expires_at)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		t.UserID, t.TokenHash, t.ExpiresAt,
	).Scan(&t.ID, &t.CreatedAt)
}

// GetPasswordResetByHash retrieves an unused, non-expired reset token.
func (r *TokenRepository) GetPasswordResetByHash(ctx context.Context, tokenHash string) (*model.PasswordResetToken, error) {
	var t model.PasswordResetToken
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, token_hash, expires_at, used_at, created_at
		 FROM password_reset_tokens
		 WHERE token_hash = $1 AND used_at IS NULL AND expires_at > NOW()`, tokenHash,
	).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.UsedAt, &t.CreatedAt)
	if err != nil {
		return nil, wrapNoRows(err)
	}
	return &t, nil
}

// MarkPasswordResetUsed consumes a reset token.
func (r *TokenRepository) MarkPasswordResetUsed(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE password_reset_tokens SET used_at = NOW() WHERE id = $1 AND used_at IS NULL`, id)
	return err
}
