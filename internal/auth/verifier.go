package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMissingSubject is returned for otherwise valid tokens without a sub claim.
var ErrMissingSubject = errors.New("token has no subject claim")

// TokenVerifier defines the interface for bearer token verification
type TokenVerifier interface {
	Validate(tokenString string) (*Claims, error)
	Close() error
}

// Claims represents the JWT claims issued by Supabase Auth
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the subject claim.
func (c *Claims) UserID() string {
	return c.Subject
}

func checkSubject(claims *Claims) error {
	if claims.Subject == "" {
		return ErrMissingSubject
	}
	return nil
}
