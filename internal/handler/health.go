package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/forecastapp/api/internal/service"
	"github.com/forecastapp/api/pkg/response"
)

type HealthHandler struct {
	service *service.HealthService
}

func NewHealthHandler(svc *service.HealthService) *HealthHandler {
	return &HealthHandler{service: svc}
}

// Health handles GET /api/health
// @Summary      Liveness
// @Tags         Health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /api/health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return response.OK(c, fiber.Map{
		"status":       "healthy",
		"mlServiceUrl": h.service.ProcessingURL(),
	})
}

// Services handles GET /api/services/health
// @Summary      Dependency availability
// @Tags         Health
// @Produce      json
// @Success      200 {object} service.ServiceStatus
// @Router       /api/services/health [get]
func (h *HealthHandler) Services(c *fiber.Ctx) error {
	return response.OK(c, h.service.Services(c.UserContext()))
}
