package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/forecastapp/api/internal/apperr"
	"github.com/forecastapp/api/pkg/response"
)

// writeError maps a classified error onto the response envelope.
func writeError(c *fiber.Ctx, err error) error {
	msg := apperr.MessageOf(err)
	kind := apperr.KindOf(err)

	log := zerolog.Ctx(c.UserContext())
	if kind == apperr.KindInternal {
		log.Error().Err(err).Msg("request failed")
	} else {
		log.Debug().Err(err).Str("kind", string(kind)).Msg("request failed")
	}

	switch kind {
	case apperr.KindUnauthenticated:
		return response.Unauthorized(c, msg)
	case apperr.KindServiceUnavailable:
		return response.ServiceUnavailable(c, msg)
	case apperr.KindNotFound:
		return response.NotFound(c, msg)
	case apperr.KindStorageWrite:
		return response.StorageError(c, msg)
	case apperr.KindMetadataWrite:
		return response.MetadataError(c, msg)
	case apperr.KindProcessing:
		return response.ProcessingError(c, msg)
	case apperr.KindValidation:
		return response.ValidationError(c, msg, nil)
	default:
		return response.ServiceError(c, "Internal Server Error")
	}
}

func formatValidationErrors(err error) interface{} {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		errors := make(map[string]string)
		for _, e := range validationErrors {
			errors[e.Field()] = e.Tag()
		}
		return errors
	}
	return nil
}
