package handler

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/forecastapp/api/internal/service"
	"github.com/forecastapp/api/pkg/response"
)

type PreviewHandler struct {
	service *service.PreviewService
}

func NewPreviewHandler(svc *service.PreviewService) *PreviewHandler {
	return &PreviewHandler{service: svc}
}

// Preview handles POST /api/preview
// @Summary      Preview table
// @Description  Return the header and first rows of a CSV or XLSX file to help with column mapping
// @Tags         Upload
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Sales table"
// @Success      200 {object} model.PreviewResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /api/preview [post]
func (h *PreviewHandler) Preview(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.ValidationError(c, "File is required", nil)
	}
	if file.Size > maxUploadSize {
		return response.ValidationError(c, "File size exceeds 50MB limit", nil)
	}

	f, err := file.Open()
	if err != nil {
		return response.ServiceError(c, "Failed to open file")
	}
	defer f.Close()

	body, err := io.ReadAll(f)
	if err != nil {
		return response.ServiceError(c, "Failed to read file")
	}

	result, err := h.service.Preview(file.Filename, body)
	if err != nil {
		return writeError(c, err)
	}
	return response.OK(c, result)
}
