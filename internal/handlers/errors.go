package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/example/sankofa/internal/services"
	"github.com/example/sankofa/internal/store"
)

// ErrorHandler maps auth-core sentinels and fiber errors to response
// statuses. Unrecognized errors are logged and answered with a generic
// 500 so store internals never leak to clients.
func ErrorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := "internal server error"

		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
			message = fiberErr.Message
		case errors.Is(err, services.ErrInvalidContact),
			errors.Is(err, services.ErrInvalidOrExpiredCode),
			errors.Is(err, services.ErrInvalidRefreshToken):
			status = fiber.StatusBadRequest
			message = err.Error()
		case errors.Is(err, services.ErrUserNotFound),
			errors.Is(err, services.ErrSessionNotFound),
			errors.Is(err, store.ErrNotFound):
			status = fiber.StatusNotFound
			message = err.Error()
		case errors.Is(err, store.ErrDuplicate):
			status = fiber.StatusConflict
			message = err.Error()
		default:
			log.Error("request failed", "path", c.Path(), "error", err)
		}

		return c.Status(status).JSON(fiber.Map{"error": message})
	}
}
