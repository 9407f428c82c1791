package controller

import (
	"note-service-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Check(ctx *fiber.Ctx) error
}

type healthController struct {
	healthService service.IHealthService
}

func NewHealthController(healthService service.IHealthService) IHealthController {
	return &healthController{healthService: healthService}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Check)
}

func (c *healthController) Check(ctx *fiber.Ctx) error {
	report := c.healthService.Check(ctx.UserContext())
	if !report.Healthy() {
		return ctx.Status(fiber.StatusInternalServerError).JSON(report)
	}
	return ctx.Status(fiber.StatusOK).JSON(report)
}
