package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forecastapp/api/internal/auth"
)

type stubVerifier struct {
	subject string
	err     error
	calls   int
}

func (s *stubVerifier) Validate(string) (*auth.Claims, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &auth.Claims{Email: "owner@example.com", RegisteredClaims: jwt.RegisteredClaims{Subject: s.subject}}, nil
}

func (s *stubVerifier) Close() error { return nil }

func newAuthApp(m *AuthMiddleware) *fiber.App {
	app := fiber.New()
	app.Get("/api/files", m.Authenticate(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userId": GetUserID(c), "email": GetUserEmail(c)})
	})
	return app
}

func doGet(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/files", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAuthenticate_RejectsUniformly(t *testing.T) {
	app := newAuthApp(NewAuthMiddleware(&stubVerifier{err: errors.New("bad signature")}))

	for _, header := range []string{"", "Basic abc", "Bearer ", "Bearer token"} {
		resp := doGet(t, app, header)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "header %q", header)
	}
}

func TestAuthenticate_NotConfigured(t *testing.T) {
	app := newAuthApp(NewAuthMiddleware(nil))

	resp := doGet(t, app, "Bearer token")

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthenticate_FallsBackToNextVerifier(t *testing.T) {
	first := &stubVerifier{err: errors.New("unknown kid")}
	second := &stubVerifier{subject: "user-1"}
	app := newAuthApp(NewAuthMiddleware(first, second))

	resp := doGet(t, app, "bearer token")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestAuthenticate_SetsUser(t *testing.T) {
	app := newAuthApp(NewAuthMiddleware(&stubVerifier{subject: "user-9"}))

	resp := doGet(t, app, "Bearer token")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"userId":"user-9"`)
	assert.Contains(t, string(body), `"email":"owner@example.com"`)
}
