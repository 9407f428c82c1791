package serverutils

import (
	"errors"
	"strings"

	"note-service-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders errors that escape the handlers (unknown routes, wrong
// methods, recovered panics) as JSON instead of Fiber's plain text.
func ErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) && fe.Code == fiber.StatusRequestEntityTooLarge && strings.HasPrefix(ctx.Path(), "/notes") {
			// oversized note bodies fail like any other unusable payload
			log.Warn("Server", "Request body too large", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
			})
			return Fail(ctx)
		}
		if errors.As(err, &fe) {
			return ctx.Status(fe.Code).JSON(MessageResponse{Message: fe.Message})
		}

		log.Error("Server", "Unhandled error", map[string]interface{}{
			"error":  err,
			"method": ctx.Method(),
			"path":   ctx.Path(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(StatusResponse{Status: StatusFail})
	}
}
