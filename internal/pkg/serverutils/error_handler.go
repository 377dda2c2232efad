package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"taxpadi-referral-be/internal/pkg/apperror"
)

// ErrorHandlerMiddleware maps application errors returned by handlers onto
// HTTP responses. ConcurrencyConflict is a transient retry condition, not a
// server fault; internal invariant violations surface as a generic 500.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		status := statusFor(err)
		return ctx.Status(status).JSON(ErrorResponse(status, apperror.UserMessage(err)))
	}
}

func statusFor(err error) int {
	switch apperror.KindOf(err) {
	case apperror.KindValidation:
		return fiber.StatusBadRequest
	case apperror.KindConflict:
		return fiber.StatusConflict
	case apperror.KindInsufficientBalance:
		return fiber.StatusUnprocessableEntity
	case apperror.KindConcurrencyConflict:
		return fiber.StatusConflict
	case apperror.KindExternalGateway:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
