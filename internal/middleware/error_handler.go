package middleware

import (
	"sevatrust-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ErrorHandler is the global error handler. Unexpected errors are logged
// with full context server-side; the client only sees the generic message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	} else {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("Unhandled error")
	}

	return response.Error(c, message, code, nil)
}
