package serverutils

import "github.com/gofiber/fiber/v2"

const (
	StatusFail    = "fail"
	StatusSuccess = "success"
)

type StatusResponse struct {
	Status string `json:"status"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func Fail(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(StatusResponse{Status: StatusFail})
}

func NotFound(ctx *fiber.Ctx, message string) error {
	return ctx.Status(fiber.StatusNotFound).JSON(MessageResponse{Message: message})
}

func Success(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(StatusResponse{Status: StatusSuccess})
}
