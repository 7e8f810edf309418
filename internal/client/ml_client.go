package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/forecastapp/api/internal/config"
	"github.com/forecastapp/api/internal/metrics"
	"github.com/forecastapp/api/internal/model"
)

// maxErrorBody caps how much of a failed response is kept for error messages.
const maxErrorBody = 2048

// Processor defines the interface for the external forecasting service
type Processor interface {
	ProcessFile(ctx context.Context, req *ProcessFileRequest) (model.Payload, error)
	Forecast(ctx context.Context, req *model.ForecastRequest) (model.Payload, error)
	IsConfigured() bool
	BaseURL() string
}

// ProcessFileRequest represents the request for processing a stored upload
type ProcessFileRequest struct {
	FilePath   string `json:"file_path"`
	Filename   string `json:"filename"`
	UploadTime string `json:"upload_time"`
	FileID     string `json:"file_id"`
	DateCol    string `json:"date_col"`
	MenuCol    string `json:"menu_col"`
	TargetCol  string `json:"target_col"`
	LocationID string `json:"location_id,omitempty"`
}

// StatusError is returned when the ML service answers with anything but 200.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ml service error (status %d): %s", e.StatusCode, e.Body)
}

// MLClient implements Processor for the Python forecasting microservice
type MLClient struct {
	httpClient   *http.Client
	baseURL      string
	processPath  string
	forecastPath string
}

// NewMLClient creates a new ML service client
func NewMLClient(cfg *config.MLConfig) *MLClient {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &MLClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:      cfg.BaseURL,
		processPath:  cfg.ProcessPath,
		forecastPath: cfg.ForecastPath,
	}
}

// ProcessFile asks the ML service to process a stored upload
func (c *MLClient) ProcessFile(ctx context.Context, req *ProcessFileRequest) (model.Payload, error) {
	start := time.Now()
	result, err := c.post(ctx, c.processPath, req)
	metrics.ObserveProcessingCall("process-file", err, time.Since(start))
	return result, err
}

// Forecast runs an on-demand forecast over inline data
func (c *MLClient) Forecast(ctx context.Context, req *model.ForecastRequest) (model.Payload, error) {
	start := time.Now()
	result, err := c.post(ctx, c.forecastPath, req)
	metrics.ObserveProcessingCall("forecast", err, time.Since(start))
	return result, err
}

// post sends a POST request with JSON body and parses the JSON object response
func (c *MLClient) post(ctx context.Context, endpoint string, body interface{}) (model.Payload, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var result model.Payload
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if result == nil {
		result = model.Payload{}
	}

	return result, nil
}

// IsConfigured returns true if the client has valid configuration
func (c *MLClient) IsConfigured() bool {
	return c != nil && c.baseURL != ""
}

// BaseURL returns the configured service URL
func (c *MLClient) BaseURL() string {
	return c.baseURL
}
