package health

import (
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

// Plain handles GET /health for load balancer probes.
func (h *Handlers) Plain(c *fiber.Ctx) error {
	return c.SendString("OK")
}

// JSON handles GET /health/json with dependency status and traffic stats.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	report := h.Service.Check(c.Context())
	code := fiber.StatusOK
	if report.Status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(report)
}
