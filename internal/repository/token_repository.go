package repository

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/hoanvu/room-rental/internal/auth"
	"github.com/hoanvu/room-rental/internal/model"
)

// TokenRepo persists refresh tokens keyed by their verbatim signed value.
// Expiry is enforced twice: lookups exclude rows past expires_at, and a
// background sweeper deletes them, so the observable contract matches a
// store with native TTL support.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Create inserts a refresh token row. The unique index on token_value
// turns a collision into auth.ErrDuplicateKey instead of a silent double
// insert.
func (r *TokenRepo) Create(ctx context.Context, userID uint64, tokenValue string, issuedAt, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_value, issued_at, expires_at) VALUES (?,?,?,?)",
		userID, tokenValue, issuedAt, expiresAt)
	if err != nil && isDuplicateKey(err) {
		return auth.ErrDuplicateKey
	}
	return err
}

// FindByValue returns the record for a token value. Rows whose expiry has
// passed are reported as absent even if the sweeper has not removed them
// yet.
func (r *TokenRepo) FindByValue(ctx context.Context, tokenValue string) (model.RefreshToken, error) {
	var t model.RefreshToken
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, token_value, issued_at, expires_at FROM refresh_tokens WHERE token_value=? AND expires_at > UTC_TIMESTAMP() LIMIT 1",
		tokenValue).Scan(&t.ID, &t.UserID, &t.TokenValue, &t.IssuedAt, &t.ExpiresAt)
	if err == sql.ErrNoRows {
		return model.RefreshToken{}, auth.ErrNotFound
	}
	return t, err
}

// DeleteByValue removes a token record. Deleting a token that does not
// exist is not an error; logout is idempotent.
func (r *TokenRepo) DeleteByValue(ctx context.Context, tokenValue string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM refresh_tokens WHERE token_value=?", tokenValue)
	return err
}

// DeleteExpired purges rows whose expiry has passed and returns how many
// were removed.
func (r *TokenRepo) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM refresh_tokens WHERE expires_at <= UTC_TIMESTAMP()")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// StartSweeper runs DeleteExpired on the given interval until ctx is
// cancelled. Errors are logged and the loop keeps going; a failed sweep
// only delays cleanup since lookups already exclude expired rows.
func (r *TokenRepo) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := r.DeleteExpired(ctx)
				if err != nil {
					log.Printf("token sweeper: delete expired failed: %v", err)
					continue
				}
				if n > 0 {
					log.Printf("token sweeper: purged %d expired refresh tokens", n)
				}
			}
		}
	}()
}
