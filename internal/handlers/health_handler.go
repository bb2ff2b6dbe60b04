package handlers

import (
	"productstore/internal/static"

	"github.com/gofiber/fiber/v2"
)

// RegisterHealthRoutes registers the home page and the health check.
func RegisterHealthRoutes(router fiber.Router) {
	router.Get("/health", HandleHealth)
	router.Get("/", HandleIndex)
}

// HandleHealth lets callers know the service is up.
func HandleHealth(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  fiber.StatusOK,
		"message": "OK",
	})
}

// HandleIndex serves the home page.
func HandleIndex(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(fiber.StatusOK).Send(static.IndexHTML)
}
