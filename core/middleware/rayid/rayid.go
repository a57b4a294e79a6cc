package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// Header is the response header carrying the ray id.
	Header = "X-Ray-ID"
	// LocalsKey is the Fiber locals key holding the ray id.
	LocalsKey = "ray_id"
)

// New creates a middleware that assigns every request a ray id.
// An incoming X-Ray-ID header is reused so callers can correlate their own logs.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(Header)
		if _, err := uuid.Parse(rid); err != nil {
			rid = uuid.NewString()
		}
		c.Locals(LocalsKey, rid)
		c.Set(Header, rid)
		return c.Next()
	}
}

// Get returns the ray id of the request, or an empty string.
func Get(c *fiber.Ctx) string {
	rid, _ := c.Locals(LocalsKey).(string)
	return rid
}
