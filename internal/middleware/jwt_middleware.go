package middleware

import (
	"errors"
	"fmt"
	"log"

	"rental/internal/apperr"
	"rental/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "token"

const identityKey = "identity"

// TokenVerifier resolves a session token to its claims.
type TokenVerifier interface {
	Verify(token string) (services.Claims, error)
}

// Identify resolves the session cookie when one is present. Requests without
// the cookie continue anonymously; a cookie that fails verification is
// rejected with 401.
func Identify(tokens TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(SessionCookie)
		if tokenString == "" {
			return c.Next()
		}
		if err := resolve(c, tokens, tokenString); err != nil {
			return err
		}
		return c.Next()
	}
}

// AuthRequired is Identify without the anonymous case.
func AuthRequired(tokens TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(SessionCookie)
		if tokenString == "" {
			return fmt.Errorf("%w: session cookie is required", apperr.ErrUnauthorized)
		}
		if err := resolve(c, tokens, tokenString); err != nil {
			return err
		}
		return c.Next()
	}
}

func resolve(c *fiber.Ctx, tokens TokenVerifier, tokenString string) error {
	claims, err := tokens.Verify(tokenString)
	if err != nil {
		log.Printf("JWT validation failed: %v", err)
		if !errors.Is(err, apperr.ErrUnauthorized) {
			return fmt.Errorf("%w: %v", apperr.ErrUnauthorized, err)
		}
		return err
	}
	// Store claims in Fiber context for subsequent handlers
	c.Locals(identityKey, claims)
	return nil
}

// IdentityFrom returns the caller resolved by Identify or AuthRequired.
func IdentityFrom(c *fiber.Ctx) (services.Claims, bool) {
	claims, ok := c.Locals(identityKey).(services.Claims)
	return claims, ok
}
