package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/forecastapp/api/internal/auth"
	"github.com/forecastapp/api/pkg/response"
)

const (
	localUserID = "userId"
	localEmail  = "email"
	localClaims = "claims"
)

// AuthMiddleware handles bearer token authentication
type AuthMiddleware struct {
	verifiers []auth.TokenVerifier
}

// NewAuthMiddleware creates auth middleware trying each verifier in order.
// Nil verifiers are skipped; with none left every request is rejected.
func NewAuthMiddleware(verifiers ...auth.TokenVerifier) *AuthMiddleware {
	m := &AuthMiddleware{}
	for _, v := range verifiers {
		if v != nil {
			m.verifiers = append(m.verifiers, v)
		}
	}
	return m
}

// Authenticate validates the token from the Authorization header
func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if len(m.verifiers) == 0 {
			return response.Unauthorized(c, "Authentication not configured")
		}

		tokenString, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			if c.Get(fiber.HeaderAuthorization) == "" {
				return response.Unauthorized(c, "Missing authorization header")
			}
			return response.Unauthorized(c, "Invalid authorization header format")
		}

		for _, v := range m.verifiers {
			claims, err := v.Validate(tokenString)
			if err != nil {
				continue
			}
			c.Locals(localUserID, claims.UserID())
			c.Locals(localEmail, claims.Email)
			c.Locals(localClaims, claims)
			return c.Next()
		}

		return response.Unauthorized(c, "Invalid or expired token")
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// GetUserID extracts user ID from context
func GetUserID(c *fiber.Ctx) string {
	if userID, ok := c.Locals(localUserID).(string); ok {
		return userID
	}
	return ""
}

// GetUserEmail extracts user email from context
func GetUserEmail(c *fiber.Ctx) string {
	if email, ok := c.Locals(localEmail).(string); ok {
		return email
	}
	return ""
}
