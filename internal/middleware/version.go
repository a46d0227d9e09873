package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// VersionMiddleware parses the X-Api-Version header and stores it in context.
// Remote proxy handlers use it to override the configured upstream API
// version string per request; an empty value means use the configured one.
func VersionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("apiVersion", c.Get("X-Api-Version", ""))
		return c.Next()
	}
}

// APIVersion reads the version stored by VersionMiddleware.
func APIVersion(c *fiber.Ctx) string {
	if v, ok := c.Locals("apiVersion").(string); ok {
		return v
	}
	return ""
}
