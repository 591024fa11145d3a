package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName is the response header carrying the generated ray ID.
const HeaderName = "X-Ray-Id"

// LocalsKey is the fiber locals key holding the ray ID.
const LocalsKey = "ray_id"

// New creates a middleware that tags every request with a unique ray ID.
// Handlers pick it up through logger.WithRayID; clients get it back in
// the response header for support tickets.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := uuid.New().String()
		c.Locals(LocalsKey, id)
		c.Set(HeaderName, id)
		return c.Next()
	}
}
