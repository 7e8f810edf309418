package client

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/forecastapp/api/internal/config"
)

func TestNewGCSClient_RequiresBucket(t *testing.T) {
	_, err := NewGCSClient(context.Background(), &config.GCSConfig{})
	assert.Error(t, err)
}

func TestGCSClient_Put(t *testing.T) {
	var uploaded []byte
	var srvURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		switch {
		case r.URL.Query().Get("uploadType") == "resumable" && r.Method == http.MethodPost:
			w.Header().Set("Location", srvURL+"/resumable-session")
			w.WriteHeader(http.StatusOK)
			return
		case strings.HasPrefix(r.URL.Path, "/resumable-session"):
			uploaded = append(uploaded, body...)
		default:
			uploaded = append(uploaded, body...)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"bucket":"forecast-raw","name":"uploads/a.csv"}`))
	}))
	defer srv.Close()
	srvURL = srv.URL

	c, err := NewGCSClient(context.Background(), &config.GCSConfig{Bucket: "forecast-raw"},
		option.WithEndpoint(srv.URL+"/storage/v1/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	defer c.Close()

	loc, err := c.Put(context.Background(), "uploads/a.csv", bytes.NewReader([]byte("date,qty\n2024-01-01,3\n")), "text/csv")

	require.NoError(t, err)
	assert.Equal(t, "gs://forecast-raw/uploads/a.csv", loc)
	assert.Contains(t, string(uploaded), "2024-01-01,3")
	assert.True(t, c.IsConfigured())
}
