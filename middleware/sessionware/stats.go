package sessionware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	auth "github.com/campuslink/go-auth"
)

// StatsHandler serves aggregate session-registry diagnostics: count plus
// per-session jti/user/timestamps. Raw tokens and signing material are never
// part of the snapshot. Outside the development posture the route answers
// 404 as if it did not exist.
func StatsHandler(registry *auth.SessionRegistry, environment string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !strings.EqualFold(environment, auth.EnvDevelopment) {
			return c.SendStatus(fiber.StatusNotFound)
		}

		return c.JSON(fiber.Map{
			"count":    registry.Size(),
			"sessions": registry.Snapshot(),
		})
	}
}
