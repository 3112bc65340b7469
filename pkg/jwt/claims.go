package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the claims of an identity provider access token
type Claims struct {
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Identifier returns the user id carried by the token, preferring the subject
func (c *Claims) Identifier() string {
	if c.Subject != "" {
		return c.Subject
	}
	return c.UserID
}
