package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/forecastapp/api/internal/middleware"
	"github.com/forecastapp/api/internal/model"
	"github.com/forecastapp/api/internal/service"
	"github.com/forecastapp/api/pkg/response"
)

type ForecastHandler struct {
	service   *service.ForecastService
	validator *validator.Validate
}

func NewForecastHandler(svc *service.ForecastService, v *validator.Validate) *ForecastHandler {
	return &ForecastHandler{
		service:   svc,
		validator: v,
	}
}

// Forecast handles POST /api/forecast
// @Summary      Run forecast
// @Description  Run an on-demand forecast over rows sent in the request
// @Tags         Forecast
// @Accept       json
// @Produce      json
// @Param        request body model.ForecastRequest true "Forecast request"
// @Success      200 {object} model.ForecastResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Failure      429 {object} response.ErrorResponse
// @Failure      502 {object} response.ErrorResponse
// @Failure      503 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /api/forecast [post]
func (h *ForecastHandler) Forecast(c *fiber.Ctx) error {
	var req model.ForecastRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	result, err := h.service.Forecast(c.UserContext(), middleware.GetUserID(c), &req)
	if err != nil {
		return writeError(c, err)
	}

	return response.OK(c, result)
}
