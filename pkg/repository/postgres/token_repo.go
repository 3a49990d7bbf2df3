package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kodbank/kodbank/pkg/token"
)

// TokenRepository implements token.Ledger backed by PostgreSQL (pgx).
// The token column is unique so revocation can key on the token value.
type TokenRepository struct {
	db DB
}

func NewTokenRepository(db DB) (*TokenRepository, error) {
	repo := &TokenRepository{db: db}
	if err := repo.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *TokenRepository) ensureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS session_tokens (
			id UUID PRIMARY KEY,
			token TEXT NOT NULL UNIQUE,
			uid BIGINT NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
	`)
	return err
}

func (r *TokenRepository) Record(ctx context.Context, t token.SessionToken) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO session_tokens (id, token, uid, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, t.ID, t.Token, t.UID, t.ExpiresAt, t.CreatedAt)
	return err
}

func (r *TokenRepository) FindByToken(ctx context.Context, tokenValue string) (token.SessionToken, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, token, uid, expires_at, created_at
		FROM session_tokens WHERE token = $1
	`, tokenValue)
	var t token.SessionToken
	var expiresAt, createdAt time.Time
	if err := row.Scan(&t.ID, &t.Token, &t.UID, &expiresAt, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return token.SessionToken{}, token.ErrNotFound
		}
		return token.SessionToken{}, err
	}
	t.ExpiresAt = expiresAt.UTC()
	t.CreatedAt = createdAt.UTC()
	return t, nil
}

// Revoke removes a ledger entry. Revoking a token that was never
// recorded is not an error.
func (r *TokenRepository) Revoke(ctx context.Context, tokenValue string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM session_tokens WHERE token = $1`, tokenValue)
	return err
}
