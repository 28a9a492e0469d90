package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/xid"

	"compstats.gg/backend/internal/constant"
)

// RequestID tags every request with an id, echoed back to the client so a
// user-visible failure banner can reference it.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(constant.RequestIDHeader)
		if id == "" {
			id = xid.New().String()
		}
		c.Locals(constant.ContextKeyRequestID, id)
		c.Set(constant.RequestIDHeader, id)
		return c.Next()
	}
}
