package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired means the signature checked out but the embedded
	// expiry has passed. Callers route this to a re-authentication
	// message, so it must stay distinct from ErrTokenInvalid.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid covers every other verification failure: bad
	// signature, malformed payload, wrong algorithm, wrong issuer.
	ErrTokenInvalid = errors.New("invalid token")
)

// Verifier validates session tokens against the configured signing key.
// It trusts the signed payload and never consults storage.
type Verifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer, now: time.Now}
}

// Verify checks signature and expiry and returns the embedded claims.
func (v *Verifier) Verify(tokenValue string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenValue, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	if v.issuer != "" && claims.Issuer != v.issuer {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
