package auth

import (
	"context"
	"time"

	"github.com/kodbank/kodbank/pkg/account"
)

// TokenIssuer abstracts signed-token creation (e.g., JWT).
// It allows use cases to stay framework-agnostic. The returned expiry
// must equal the expiry embedded in the signed payload.
type TokenIssuer interface {
	Issue(ctx context.Context, username string, role account.Role) (tokenValue string, expiresAt time.Time, err error)
}
