package middleware

// requestid.go — Request identification middleware.
// Every response carries an X-Request-ID header so a failing request can be
// correlated across the API logs and whatever called it. Clients may supply
// their own ID (e.g. a gateway tracing ID) and we echo it back; otherwise we
// mint a fresh UUID.

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequestID returns a middleware handler that ensures each request has an
// X-Request-ID. The ID is stored in c.Locals("requestID") for handlers that
// want to log it, and set on the response header.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(fiber.HeaderXRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals("requestID", id)
		c.Set(fiber.HeaderXRequestID, id)
		return c.Next()
	}
}
