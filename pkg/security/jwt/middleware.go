package jwt

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CookieName is the session cookie set at login and read back here.
const CookieName = "token"

// TokenFromRequest extracts the session token from the Authorization
// header ("Bearer <token>" or a bare token) or, failing that, from the
// session cookie. The header wins when both are present.
func TokenFromRequest(c *fiber.Ctx) string {
	if h := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return h
	}
	return strings.TrimSpace(c.Cookies(CookieName))
}

// NewAuthMiddleware returns a Fiber middleware that authenticates
// requests with the given Verifier. On success it sets the token subject
// (username) into c.Locals("subject") and the role into c.Locals("role").
func NewAuthMiddleware(verifier *Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := TokenFromRequest(c)
		if tokenStr == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "access denied: no token provided"})
		}
		claims, err := verifier.Verify(tokenStr)
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "token expired"})
			}
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "invalid token"})
		}
		c.Locals("subject", claims.Subject)
		c.Locals("role", string(claims.Role))
		return c.Next()
	}
}
