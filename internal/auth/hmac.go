package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// HMACVerifier validates HS256 tokens signed with a shared secret
// (the Supabase project JWT secret).
type HMACVerifier struct {
	secret   []byte
	audience string
}

// NewHMACVerifier creates a verifier for the given secret. An empty audience
// disables the audience check.
func NewHMACVerifier(secret, audience string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret), audience: audience}
}

// Validate validates a token using HMAC signing and returns its claims
func (v *HMACVerifier) Validate(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if err := checkSubject(claims); err != nil {
		return nil, err
	}

	return claims, nil
}

// Close is a no-op for the shared-secret verifier
func (v *HMACVerifier) Close() error {
	return nil
}
