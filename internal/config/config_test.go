package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "s3", cfg.Storage.Provider)
	assert.Equal(t, "/process-file", cfg.ML.ProcessPath)
	assert.Equal(t, 120, cfg.ML.Timeout)
	assert.Equal(t, 60*time.Second, cfg.Pipeline.StepTimeout)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ML_API_URL", "http://ml:8001/")
	t.Setenv("STORAGE_PROVIDER", "GCS")
	t.Setenv("PIPELINE_STEP_TIMEOUT", "5s")
	t.Setenv("SERVER_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "http://ml:8001", cfg.ML.BaseURL)
	assert.Equal(t, "gcs", cfg.Storage.Provider)
	assert.Equal(t, 5*time.Second, cfg.Pipeline.StepTimeout)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_SecretFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jwt")
	require.NoError(t, os.WriteFile(path, []byte("file-secret\n"), 0o600))
	t.Setenv("SUPABASE_JWT_SECRET", "")
	t.Setenv("SUPABASE_JWT_SECRET_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "file-secret", cfg.Auth.JWTSecret)
}
