package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const HeaderRequestID = "X-Request-Id"

// RequestLogger logs every request with method, path, status and latency.
// Level follows the status code: info below 400, warn for 4xx, error for 5xx.
// An incoming X-Request-Id is reused, otherwise one is generated.
func RequestLogger(logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(HeaderRequestID, requestID)

		reqLogger := logger.With().Str("request_id", requestID).Logger()
		c.SetUserContext(reqLogger.WithContext(c.UserContext()))

		chainErr := c.Next()
		if chainErr != nil {
			// Let the app error handler write the response before logging the final status.
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		event := reqLogger.Info()
		switch {
		case status >= 500:
			event = reqLogger.Error()
		case status >= 400:
			event = reqLogger.Warn()
		}
		if chainErr != nil {
			event = event.Err(chainErr)
		}

		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Msg("http request")

		return nil
	}
}
