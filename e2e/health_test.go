package e2e

import (
	"net/http"
	"testing"
)

func TestBaseURL(t *testing.T) {
	ta := setupApp(t)

	resp, err := doRequest(ta.app, http.MethodGet, "/", "", nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusOK)

	body := parseJSON(t, resp)
	if _, ok := body["message"]; !ok {
		t.Error("expected 'message' field in response")
	}
}

func TestHealth(t *testing.T) {
	ta := setupApp(t)

	resp, err := doRequest(ta.app, http.MethodGet, "/api/health", "", nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusOK)

	body := parseJSON(t, resp)
	if body["status"] != "healthy" {
		t.Errorf("expected status 'healthy', got %v", body["status"])
	}
	if body["mlServiceUrl"] != ta.ml.srv.URL {
		t.Errorf("expected mlServiceUrl %q, got %v", ta.ml.srv.URL, body["mlServiceUrl"])
	}
	if ta.ml.calls.Load() != 0 {
		t.Error("liveness must not call dependencies")
	}
}

func TestServicesHealth(t *testing.T) {
	ta := setupApp(t, withoutObjectStore())

	resp, err := doRequest(ta.app, http.MethodGet, "/api/services/health", "", nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusOK)

	body := parseJSON(t, resp)
	if body["metadataStore"] != "available" {
		t.Errorf("expected metadataStore available, got %v", body["metadataStore"])
	}
	if body["objectStore"] != "unavailable" {
		t.Errorf("expected objectStore unavailable, got %v", body["objectStore"])
	}
	if body["externalProcessingUrl"] != ta.ml.srv.URL {
		t.Errorf("unexpected externalProcessingUrl %v", body["externalProcessingUrl"])
	}
}

func TestMetrics(t *testing.T) {
	ta := setupApp(t)

	resp, err := doRequest(ta.app, http.MethodGet, "/metrics", "", nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusOK)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	ta := setupApp(t)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/files"},
		{http.MethodGet, "/api/files/abc"},
		{http.MethodGet, "/api/jobs/abc"},
		{http.MethodGet, "/api/results/abc"},
		{http.MethodPost, "/api/upload"},
		{http.MethodPost, "/api/preview"},
		{http.MethodPost, "/api/forecast"},
	}

	for _, r := range routes {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			resp, err := doRequest(ta.app, r.method, r.path, "", nil)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			assertStatus(t, resp, http.StatusUnauthorized)
			if code := errorCode(t, parseJSON(t, resp)); code != "UNAUTHORIZED" {
				t.Errorf("expected UNAUTHORIZED, got %s", code)
			}
		})
	}
}

func TestProtectedRoutes_InvalidToken(t *testing.T) {
	ta := setupApp(t)

	resp, err := doRequest(ta.app, http.MethodGet, "/api/files", "", map[string]string{
		"Authorization": "Bearer not-a-jwt",
	})
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusUnauthorized)
}

func TestProtectedRoutes_NoVerifierConfigured(t *testing.T) {
	ta := setupApp(t, withoutAuth())

	resp, err := doAuthRequest(t, ta.app, http.MethodGet, "/api/files", "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusUnauthorized)
}
