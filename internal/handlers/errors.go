package handlers

import (
	"errors"

	"productstore/internal/middleware"
	"productstore/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

// ErrorHandler translates errors returned by handlers into HTTP responses.
// It is the only place where error kinds become status codes.
func ErrorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var validationErr *models.ValidationError
		var fiberErr *fiber.Error

		switch {
		case errors.Is(err, middleware.ErrUnsupportedMediaType):
			log.WithField("path", c.Path()).Warn(err.Error())
			c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
			return c.Status(fiber.StatusUnsupportedMediaType).SendString(err.Error())

		case errors.As(err, &validationErr):
			log.WithField("path", c.Path()).Warnf("Bad request: %v", validationErr)
			body := errorBody(fiber.StatusBadRequest, validationErr.Error())
			if len(validationErr.Fields) > 0 {
				body["errors"] = validationErr.Fields
			}
			return c.Status(fiber.StatusBadRequest).JSON(body)

		case errors.Is(err, models.ErrProductNotFound):
			log.WithField("path", c.Path()).Info(err.Error())
			return c.Status(fiber.StatusNotFound).JSON(errorBody(fiber.StatusNotFound, err.Error()))

		case errors.As(err, &fiberErr):
			return c.Status(fiberErr.Code).JSON(errorBody(fiberErr.Code, fiberErr.Message))

		default:
			log.WithError(err).WithFields(logrus.Fields{
				"method": c.Method(),
				"path":   c.Path(),
			}).Error("Internal server error")
			return c.Status(fiber.StatusInternalServerError).JSON(errorBody(fiber.StatusInternalServerError, "An internal error occurred"))
		}
	}
}

func errorBody(code int, message string) fiber.Map {
	return fiber.Map{
		"status":  code,
		"error":   utils.StatusMessage(code),
		"message": message,
	}
}
