package serverutils

import (
	"errors"

	"timetrack-be/internal/pkg/apperrors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ErrorHandlerMiddleware maps errors escaping the handlers onto the response
// envelope. Validation failures are the caller's fault; storage failures are
// retryable server faults.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err == nil {
			return nil
		}

		var ve *apperrors.ValidationError
		if errors.As(err, &ve) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse(fiber.StatusBadRequest, ve.Message))
		}

		var se *apperrors.StorageError
		if errors.As(err, &se) {
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, se.Error()))
		}

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse(fiber.StatusNotFound, "Resource not found"))
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(ErrorResponse(fe.Code, fe.Message))
		}

		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, err.Error()))
	}
}
