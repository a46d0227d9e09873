package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/localsite/planboard/internal/config"
	"github.com/localsite/planboard/internal/utils"
)

// Header names checked on every local API request.
const (
	HeaderInternalSecret = "X-Internal-Secret"
	HeaderUserEmail      = "X-User-Email"
)

// InternalSecret guards the local surface with the fixed shared secret,
// separate from the upstream bearer mechanism. When an email allow-list is
// configured the caller must also identify with a listed address.
func InternalSecret(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		secret := c.Get(HeaderInternalSecret)
		if subtle.ConstantTimeCompare([]byte(secret), []byte(cfg.InternalSecret)) != 1 {
			return utils.ErrorResponse(c, "Unauthorized", fiber.StatusUnauthorized, "authorization.secret")
		}

		if len(cfg.AllowedEmails) > 0 {
			email := c.Get(HeaderUserEmail)
			if email == "" {
				return utils.ErrorResponse(c, "Unauthorized", fiber.StatusUnauthorized, "authorization.email")
			}
			if !cfg.EmailAllowed(email) {
				return utils.ErrorResponse(c, "Access Denied", fiber.StatusForbidden, "authorization.email")
			}
			c.Locals("userEmail", email)
		}

		return c.Next()
	}
}
