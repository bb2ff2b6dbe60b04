package middleware

import (
	"errors"
	"mime"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ErrUnsupportedMediaType is returned when a request body has the wrong
// Content-Type. Errors wrapping it carry the expected type in their text.
var ErrUnsupportedMediaType = errors.New("unsupported media type")

// MediaTypeError names the media type a request should have used.
type MediaTypeError struct {
	Expected string
}

func (e *MediaTypeError) Error() string {
	return "Content-Type must be " + e.Expected
}

func (e *MediaTypeError) Unwrap() error {
	return ErrUnsupportedMediaType
}

// RequireContentType rejects requests whose Content-Type header is missing
// or does not name contentType. Parameters such as charset are ignored.
func RequireContentType(contentType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderContentType)
		if header == "" {
			return &MediaTypeError{Expected: contentType}
		}
		mediaType, _, err := mime.ParseMediaType(header)
		if err != nil || !strings.EqualFold(mediaType, contentType) {
			return &MediaTypeError{Expected: contentType}
		}
		return c.Next()
	}
}
