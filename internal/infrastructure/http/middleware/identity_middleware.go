package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ashwiniraykar1997/speech-to-text-app/internal/domain/entities"
)

// IdentityContextKey is the Echo context key of the resolved caller
const IdentityContextKey = "identity"

// Resolver resolves a bearer credential; nil means anonymous
type Resolver interface {
	Resolve(ctx context.Context, credential string) *entities.Identity
}

// Identify resolves the caller on every request and stores the identity in the Echo context.
// Requests are never rejected: an unresolvable credential means an anonymous caller.
func Identify(resolver Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token := extractToken(c.Request()); token != "" {
				if id := resolver.Resolve(c.Request().Context(), token); id != nil {
					c.Set(IdentityContextKey, id)
				}
			}
			return next(c)
		}
	}
}

// GetIdentity returns the caller resolved by Identify, or nil
func GetIdentity(c echo.Context) *entities.Identity {
	id, _ := c.Get(IdentityContextKey).(*entities.Identity)
	return id
}

func extractToken(r *http.Request) string {
	// Try Authorization header first
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	// Try cookie as fallback
	cookie, err := r.Cookie("access_token")
	if err == nil {
		return cookie.Value
	}

	return ""
}
