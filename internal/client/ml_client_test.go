package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forecastapp/api/internal/config"
	"github.com/forecastapp/api/internal/model"
)

func newMLServer(t *testing.T, handler http.HandlerFunc) *MLClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewMLClient(&config.MLConfig{
		BaseURL:      srv.URL,
		ProcessPath:  "/process-file",
		ForecastPath: "/forecast",
		Timeout:      5,
	})
}

func TestMLClient_ProcessFile(t *testing.T) {
	var got ProcessFileRequest
	c := newMLServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/process-file", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"forecast":[1,2,3]}`))
	})

	result, err := c.ProcessFile(context.Background(), &ProcessFileRequest{
		FilePath:   "s3://bucket/uploads/20240101_120000_sales.csv",
		Filename:   "20240101_120000_sales.csv",
		UploadTime: "20240101_120000",
		FileID:     "file-1",
		DateCol:    "date",
		MenuCol:    "item",
		TargetCol:  "qty",
	})

	require.NoError(t, err)
	assert.Equal(t, []interface{}{1.0, 2.0, 3.0}, result["forecast"])
	assert.Equal(t, "file-1", got.FileID)
	assert.Equal(t, "qty", got.TargetCol)
	assert.Empty(t, got.LocationID)
}

func TestMLClient_NonOKIsStatusError(t *testing.T) {
	for _, status := range []int{http.StatusCreated, http.StatusBadRequest, http.StatusInternalServerError} {
		c := newMLServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"detail":"model crashed"}`))
		})

		_, err := c.ProcessFile(context.Background(), &ProcessFileRequest{FileID: "f"})

		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr), "status %d", status)
		assert.Equal(t, status, statusErr.StatusCode)
		assert.Contains(t, statusErr.Body, "model crashed")
	}
}

func TestMLClient_InvalidJSON(t *testing.T) {
	c := newMLServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := c.Forecast(context.Background(), &model.ForecastRequest{})

	assert.Error(t, err)
}

func TestMLClient_Forecast(t *testing.T) {
	c := newMLServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecast", r.URL.Path)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "prophet", body["model_type"])
		_, _ = w.Write([]byte(`{"predictions":[4,5]}`))
	})

	result, err := c.Forecast(context.Background(), &model.ForecastRequest{ModelType: "prophet", ForecastHorizon: 2})

	require.NoError(t, err)
	assert.Contains(t, result, "predictions")
}

func TestMLClient_ContextDeadline(t *testing.T) {
	c := newMLServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.ProcessFile(ctx, &ProcessFileRequest{})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMLClient_IsConfigured(t *testing.T) {
	assert.False(t, NewMLClient(&config.MLConfig{}).IsConfigured())
	assert.True(t, NewMLClient(&config.MLConfig{BaseURL: "http://ml:8001"}).IsConfigured())
}
