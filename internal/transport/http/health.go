package http

import "github.com/gofiber/fiber/v2"

// HealthHandler reports basic liveness for the service.
func HealthHandler(c *fiber.Ctx) error {
	return c.SendString("ok")
}
