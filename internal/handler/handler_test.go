package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forecastapp/api/internal/apperr"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{apperr.New(apperr.KindUnauthenticated, "op", "no"), http.StatusUnauthorized},
		{apperr.New(apperr.KindServiceUnavailable, "op", "down"), http.StatusServiceUnavailable},
		{apperr.New(apperr.KindNotFound, "op", "gone"), http.StatusNotFound},
		{apperr.New(apperr.KindStorageWrite, "op", "s3"), http.StatusInternalServerError},
		{apperr.New(apperr.KindMetadataWrite, "op", "db"), http.StatusInternalServerError},
		{apperr.New(apperr.KindProcessing, "op", "ml"), http.StatusBadGateway},
		{apperr.New(apperr.KindValidation, "op", "bad"), http.StatusBadRequest},
		{errors.New("unclassified"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return writeError(c, tt.err) })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
