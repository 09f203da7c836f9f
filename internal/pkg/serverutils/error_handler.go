package serverutils

import (
	"errors"

	"sigma-lms-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// statusCoder is implemented by domain errors that carry their HTTP status.
type statusCoder interface {
	StatusCode() int
}

// ErrorHandlerMiddleware is the single place where handler errors become
// HTTP responses. Client errors keep their message; anything unexpected is
// logged and answered with a generic 500.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code, message := classify(err)
		if code >= fiber.StatusInternalServerError {
			log.Error("HTTP", "Request failed", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"error":  err.Error(),
			})
			message = "Internal server error"
		}
		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}

func classify(err error) (int, string) {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message
	}
	var coded statusCoder
	if errors.As(err, &coded) {
		return coded.StatusCode(), err.Error()
	}
	return fiber.StatusInternalServerError, err.Error()
}
