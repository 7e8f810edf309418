// Package server assembles the fiber application and its routes.
package server

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/forecastapp/api/internal/auth"
	"github.com/forecastapp/api/internal/client"
	"github.com/forecastapp/api/internal/config"
	"github.com/forecastapp/api/internal/handler"
	"github.com/forecastapp/api/internal/metrics"
	"github.com/forecastapp/api/internal/middleware"
	"github.com/forecastapp/api/internal/service"
	"github.com/forecastapp/api/pkg/response"
)

// Deps are the collaborators the routes are built on. Store, Objects and
// Processor must be non-nil; use the disabled adapters when unconfigured.
type Deps struct {
	Store     service.MetadataStore
	Objects   client.ObjectStore
	Processor client.Processor
	DB        service.Pinger
	Verifiers []auth.TokenVerifier
	Redis     *redis.Client
	Logger    zerolog.Logger
}

// New builds the application.
func New(cfg *config.Config, deps Deps) *fiber.App {
	bodyLimit := cfg.Server.BodyLimitMB
	if bodyLimit <= 0 {
		bodyLimit = 50
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		BodyLimit:             bodyLimit * 1024 * 1024,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(deps.Logger))
	app.Use(metrics.Middleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	validate := validator.New()

	uploadService := service.NewUploadService(deps.Store, deps.Objects, deps.Processor, cfg.Pipeline.StepTimeout, deps.Logger)
	queryService := service.NewQueryService(deps.Store)
	forecastService := service.NewForecastService(deps.Store, deps.Processor, cfg.Pipeline.StepTimeout, deps.Logger)
	previewService := service.NewPreviewService()
	healthService := service.NewHealthService(deps.Store, deps.Objects, deps.Processor, deps.DB)

	uploadHandler := handler.NewUploadHandler(uploadService, validate)
	queryHandler := handler.NewQueryHandler(queryService)
	forecastHandler := handler.NewForecastHandler(forecastService, validate)
	previewHandler := handler.NewPreviewHandler(previewService)
	healthHandler := handler.NewHealthHandler(healthService)

	authMiddleware := middleware.NewAuthMiddleware(deps.Verifiers...)
	rateLimiter := middleware.NewRateLimiter(deps.Redis, deps.Logger)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Forecasting API is running"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// Public
	api.Get("/health", healthHandler.Health)
	api.Get("/services/health", healthHandler.Services)

	protected := api.Group("", authMiddleware.Authenticate())
	protected.Post("/upload", rateLimiter.UploadLimit(cfg.RateLimit.UploadPerHour), uploadHandler.Upload)
	protected.Post("/preview", previewHandler.Preview)
	protected.Post("/forecast", rateLimiter.ForecastLimit(cfg.RateLimit.ForecastPerHour), forecastHandler.Forecast)
	protected.Get("/files", queryHandler.ListFiles)
	protected.Get("/files/:id", queryHandler.GetFile)
	protected.Get("/jobs/:id", queryHandler.JobStatus)
	protected.Get("/results/:id", queryHandler.Result)

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	errCode := response.CodeServiceError
	switch {
	case code == fiber.StatusNotFound:
		errCode = response.CodeNotFound
	case code >= 400 && code < 500:
		errCode = response.CodeValidationError
	}

	return response.Error(c, code, errCode, message, nil)
}
