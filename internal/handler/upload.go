package handler

import (
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/forecastapp/api/internal/middleware"
	"github.com/forecastapp/api/internal/model"
	"github.com/forecastapp/api/internal/service"
	"github.com/forecastapp/api/pkg/response"
)

const maxUploadSize = 50 * 1024 * 1024 // 50MB

type UploadHandler struct {
	service   *service.UploadService
	validator *validator.Validate
}

func NewUploadHandler(svc *service.UploadService, v *validator.Validate) *UploadHandler {
	return &UploadHandler{
		service:   svc,
		validator: v,
	}
}

// Upload handles POST /api/upload
// @Summary      Upload sales data
// @Description  Store a sales file, record it and run it through the forecasting service
// @Tags         Upload
// @Accept       multipart/form-data
// @Produce      json
// @Param        file        formData file   true  "Sales table (max 50MB)"
// @Param        date_col    formData string true  "Date column"
// @Param        menu_col    formData string true  "Menu item column"
// @Param        target_col  formData string true  "Target column"
// @Param        location_id formData string false "Location ID"
// @Success      201 {object} model.UploadSummary
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      429 {object} response.ErrorResponse
// @Failure      500 {object} response.ErrorResponse
// @Failure      502 {object} response.ErrorResponse
// @Failure      503 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /api/upload [post]
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	columns := model.ColumnMapping{
		DateCol:   c.FormValue("date_col"),
		MenuCol:   c.FormValue("menu_col"),
		TargetCol: c.FormValue("target_col"),
	}
	if err := h.validator.Struct(&columns); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	file, err := c.FormFile("file")
	if err != nil {
		return response.ValidationError(c, "File is required", nil)
	}

	if file.Size > maxUploadSize {
		return response.ValidationError(c, "File size exceeds 50MB limit", map[string]interface{}{
			"maxSize":  maxUploadSize,
			"fileSize": file.Size,
		})
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

	result, err := h.service.Submit(c.UserContext(), &service.UploadInput{
		Filename:    file.Filename,
		ContentType: file.Header.Get(fiber.HeaderContentType),
		Body:        body,
		Columns:     columns,
		LocationID:  c.FormValue("location_id"),
		UserID:      middleware.GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}

	return response.Created(c, result)
}
