package token

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no ledger entry matches a token value.
var ErrNotFound = errors.New("token not found")

// Ledger records issued session tokens for audit purposes. Login flows
// only append; FindByToken and Revoke exist so revocation can be added
// without touching the schema (the token value is unique-searchable).
type Ledger interface {
	Record(ctx context.Context, t SessionToken) error
	FindByToken(ctx context.Context, tokenValue string) (SessionToken, error)
	Revoke(ctx context.Context, tokenValue string) error
}
