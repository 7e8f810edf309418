package e2e

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/forecastapp/api/internal/auth"
	"github.com/forecastapp/api/internal/client"
	"github.com/forecastapp/api/internal/config"
	"github.com/forecastapp/api/internal/server"
	"github.com/forecastapp/api/internal/storetest"
)

const testJWTSecret = "test-secret-for-e2e"

// testApp holds all components needed for testing
type testApp struct {
	app     *fiber.App
	store   *storetest.Memory
	objects *storetest.Objects
	ml      *mlStub
}

// mlStub is a fake forecasting service answering with a fixed status and body.
type mlStub struct {
	status int
	body   string
	calls  atomic.Int32
	srv    *httptest.Server
}

func newMLStub(t *testing.T) *mlStub {
	t.Helper()
	m := &mlStub{status: http.StatusOK, body: `{"forecast":[1,2,3]}`}
	m.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(m.status)
		_, _ = io.WriteString(w, m.body)
	}))
	t.Cleanup(m.srv.Close)
	return m
}

type option func(*testApp, *server.Deps)

// withoutObjectStore swaps in the disabled object store.
func withoutObjectStore() option {
	return func(_ *testApp, d *server.Deps) { d.Objects = client.DisabledObjectStore{} }
}

// withoutAuth removes every token verifier.
func withoutAuth() option {
	return func(_ *testApp, d *server.Deps) { d.Verifiers = nil }
}

// setupApp builds the real application over in-memory stores and a fake ML service.
func setupApp(t *testing.T, opts ...option) *testApp {
	t.Helper()

	ta := &testApp{
		store:   storetest.NewMemory(),
		objects: storetest.NewObjects(),
		ml:      newMLStub(t),
	}

	cfg := &config.Config{
		Server: config.ServerConfig{BodyLimitMB: 50, CORSOrigins: "*"},
		ML: config.MLConfig{
			BaseURL:      ta.ml.srv.URL,
			ProcessPath:  "/process-file",
			ForecastPath: "/forecast",
			Timeout:      5,
		},
		Pipeline: config.PipelineConfig{StepTimeout: 5 * time.Second},
	}

	deps := server.Deps{
		Store:     ta.store,
		Objects:   ta.objects,
		Processor: client.NewMLClient(&cfg.ML),
		Verifiers: []auth.TokenVerifier{auth.NewHMACVerifier(testJWTSecret, "")},
		Logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(ta, &deps)
	}

	ta.app = server.New(cfg, deps)
	return ta
}

// generateToken creates an HS256 token for test requests.
func generateToken(t *testing.T) string {
	t.Helper()
	claims := auth.Claims{
		Email: "test@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "test-user-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}
	return signed
}

// doRequest is a helper to perform HTTP requests against the test app.
func doRequest(app *fiber.App, method, path string, body string, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, path, bodyReader)
	if err != nil {
		return nil, err
	}

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return app.Test(req, -1)
}

// doAuthRequest performs an authenticated request.
func doAuthRequest(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, error) {
	t.Helper()
	token := generateToken(t)
	return doRequest(app, method, path, body, map[string]string{
		"Authorization": "Bearer " + token,
	})
}

// readBody reads and returns the response body as a string.
func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return string(b)
}

// parseJSON parses response body into a map.
func parseJSON(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body := readBody(t, resp)
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, body)
	}
	return result
}

// errorCode returns error.code from an error envelope.
func errorCode(t *testing.T, body map[string]interface{}) string {
	t.Helper()
	e, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error envelope, got %v", body)
	}
	code, _ := e["code"].(string)
	return code
}

// assertStatus checks the HTTP status code.
func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("expected status %d, got %d", expected, resp.StatusCode)
	}
}
