package handlers

import "github.com/gofiber/fiber/v2"

// HealthCheck handles GET /health on the local gateway. It touches no store, so it only
// says the process is up and which store backend it was started with.
func HealthCheck(backend string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "backend": backend})
	}
}
