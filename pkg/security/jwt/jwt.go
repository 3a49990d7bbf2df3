package jwt

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kodbank/kodbank/pkg/account"
)

// Claims includes the standard claims plus the account role.
type Claims struct {
	jwt.RegisteredClaims
	Role account.Role `json:"role"`
}

// Generator issues signed HS256 session tokens. It is stateless aside
// from the signing key injected at construction.
type Generator struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewGenerator(secret, issuer string, ttl time.Duration) *Generator {
	return &Generator{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
}

// Issue creates a token with subject=username and the role claim, valid
// for the configured TTL. The returned expiry is the exact ExpiresAt
// embedded in the signed payload, so ledger entries stay auditable
// without decoding the token.
func (g *Generator) Issue(ctx context.Context, username string, role account.Role) (string, time.Time, error) {
	now := g.now().UTC()
	// Truncated to seconds so the ledger records exactly what the
	// NumericDate claim encodes.
	expiresAt := now.Add(g.ttl).Truncate(time.Second)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    g.issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role: role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
