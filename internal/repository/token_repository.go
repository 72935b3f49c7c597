package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/Brunobrno/e-rezervace-jih-vitkovice/internal/model"
)

// TokenRepo provides access to the refresh_tokens table. Only SHA-256
// hashes of raw tokens are stored.
type TokenRepo struct {
    DB *sql.DB
}

// NewTokenRepo constructs a TokenRepo.
func NewTokenRepo(db *sql.DB) *TokenRepo {
    return &TokenRepo{DB: db}
}

// Store persists a refresh token hash with its expiry.
func (r *TokenRepo) Store(ctx context.Context, userID uint64, tokenHash string, expiresAt time.Time) error {
    _, err := r.DB.ExecContext(ctx,
        `INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?, ?, ?)`,
        userID, tokenHash, expiresAt)
    return err
}

// FindValid returns the token row for a hash when it is neither revoked
// nor expired. Returns (nil, nil) when no live token matches.
func (r *TokenRepo) FindValid(ctx context.Context, tokenHash string, now time.Time) (*model.RefreshToken, error) {
    var t model.RefreshToken
    err := r.DB.QueryRowContext(ctx,
        `SELECT id, user_id, token_hash, expires_at, revoked_at, created_at
         FROM refresh_tokens
         WHERE token_hash = ? AND revoked_at IS NULL AND expires_at > ?`,
        tokenHash, now,
    ).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.RevokedAt, &t.CreatedAt)
    if err == sql.ErrNoRows {
        return nil, nil
    }
    if err != nil {
        return nil, err
    }
    return &t, nil
}

// Revoke invalidates one token, e.g. after rotation on refresh.
func (r *TokenRepo) Revoke(ctx context.Context, id uint64, now time.Time) error {
    _, err := r.DB.ExecContext(ctx,
        `UPDATE refresh_tokens SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL`,
        now, id)
    return err
}

// RevokeAllForUser invalidates every live token of a user, used on
// logout-everywhere and on account deactivation.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64, now time.Time) error {
    _, err := r.DB.ExecContext(ctx,
        `UPDATE refresh_tokens SET revoked_at = ? WHERE user_id = ? AND revoked_at IS NULL`,
        now, userID)
    return err
}

// DeleteExpired removes rows that can never validate again.
func (r *TokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
    res, err := r.DB.ExecContext(ctx,
        `DELETE FROM refresh_tokens WHERE expires_at <= ? OR revoked_at IS NOT NULL`, now)
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}
