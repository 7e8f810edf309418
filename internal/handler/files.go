package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/forecastapp/api/internal/service"
	"github.com/forecastapp/api/pkg/response"
)

// QueryHandler serves the read-only lookups.
type QueryHandler struct {
	service *service.QueryService
}

func NewQueryHandler(svc *service.QueryService) *QueryHandler {
	return &QueryHandler{service: svc}
}

// ListFiles handles GET /api/files
// @Summary      List uploads
// @Description  List every uploaded file, newest first
// @Tags         Files
// @Produce      json
// @Success      200 {object} model.UploadList
// @Failure      401 {object} response.ErrorResponse
// @Failure      503 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /api/files [get]
func (h *QueryHandler) ListFiles(c *fiber.Ctx) error {
	result, err := h.service.ListUploads(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return response.OK(c, result)
}

// GetFile handles GET /api/files/:id
// @Summary      Get upload
// @Description  Get one upload together with its recorded results
// @Tags         Files
// @Produce      json
// @Param        id path string true "Upload ID"
// @Success      200 {object} model.UploadDetails
// @Failure      401 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      503 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /api/files/{id} [get]
func (h *QueryHandler) GetFile(c *fiber.Ctx) error {
	result, err := h.service.GetUpload(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return response.OK(c, result)
}

// JobStatus handles GET /api/jobs/:id
// @Summary      Get job status
// @Tags         Jobs
// @Produce      json
// @Param        id path string true "Job ID"
// @Success      200 {object} model.JobStatusResponse
// @Failure      401 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      503 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /api/jobs/{id} [get]
func (h *QueryHandler) JobStatus(c *fiber.Ctx) error {
	result, err := h.service.GetJobStatus(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return response.OK(c, result)
}

// Result handles GET /api/results/:id
// @Summary      Get job result
// @Description  Get the latest result recorded for a job
// @Tags         Jobs
// @Produce      json
// @Param        id path string true "Job ID"
// @Success      200 {object} model.ResultResponse
// @Failure      401 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      503 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /api/results/{id} [get]
func (h *QueryHandler) Result(c *fiber.Ctx) error {
	result, err := h.service.GetResult(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return response.OK(c, result)
}
