package token

import (
	"time"

	"github.com/google/uuid"
)

// SessionToken is a ledger record of an issued session token.
// ExpiresAt duplicates the expiry embedded in the signed payload so the
// ledger can be audited without decoding tokens.
type SessionToken struct {
	ID        uuid.UUID
	Token     string
	UID       int64
	ExpiresAt time.Time
	CreatedAt time.Time
}
