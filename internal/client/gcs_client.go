package client

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/forecastapp/api/internal/config"
)

// GCSClient implements ObjectStore for Google Cloud Storage
type GCSClient struct {
	client *storage.Client
	bucket string
}

// NewGCSClient creates a GCS client. Without a credentials file the
// application default credentials are used.
func NewGCSClient(ctx context.Context, cfg *config.GCSConfig, opts ...option.ClientOption) (*GCSClient, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("GCS bucket is required")
	}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSClient{client: client, bucket: cfg.Bucket}, nil
}

// Put streams body to the object and returns its gs:// location
func (c *GCSClient) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	w := c.client.Bucket(c.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize GCS object: %w", err)
	}

	return fmt.Sprintf("gs://%s/%s", c.bucket, key), nil
}

// IsConfigured returns true if the client has valid configuration
func (c *GCSClient) IsConfigured() bool {
	return c != nil && c.client != nil && c.bucket != ""
}

func (c *GCSClient) Name() string { return "gcs" }

// Close releases the underlying connections
func (c *GCSClient) Close() error {
	return c.client.Close()
}
