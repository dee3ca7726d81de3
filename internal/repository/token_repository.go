package repository

import (
	"context"
	"database/sql"
	"time"
)

// TokenRepo keeps the refresh_tokens table.  A session is one row keyed by
// the SHA-256 hash of the raw token handed to the client; the raw value is
// never stored.  Refreshing a session rotates it: the presented row is
// revoked and a new row is inserted, so every raw token is good for one
// refresh only.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// StoreRefresh records a newly issued session for userID.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp.UTC())
	return err
}

// ValidateRefresh returns the owner of a live session at now.  Unknown,
// revoked and expired hashes all come back as ErrNotFound.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string, now time.Time) (uint64, error) {
	var (
		userID    uint64
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&userID, &expiresAt, &revokedAt)
	if err != nil {
		return 0, notFound(err)
	}
	if revokedAt.Valid || !now.Before(expiresAt) {
		return 0, ErrNotFound
	}
	return userID, nil
}

// RevokeByHash ends one session at the given time.  Only a live row
// matches, so when two requests rotate the same token the second one gets
// ErrNotFound and must not be issued a new session.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string, at time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=? WHERE token_hash=? AND revoked_at IS NULL",
		at.UTC(), tokenHash)
	return affectedOrNotFound(res, err)
}

// RevokeAllForUser ends every live session of a user, as on a logout
// without a refresh token.  Having none is not an error.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=? WHERE user_id=? AND revoked_at IS NULL",
		at.UTC(), userID)
	return err
}
