package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/brightride/brightride-api/internal/apperrors"
)

// ErrorHandler renders every error a handler returns as {"message": ...}.
// Validation errors also carry the per-field messages.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := apperrors.Status(err)
	if status >= fiber.StatusInternalServerError {
		log.Errorw("request failed",
			"request_id", c.Locals("requestid"),
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
	}

	body := fiber.Map{"message": apperrors.Message(err)}
	var ae *apperrors.Error
	if errors.As(err, &ae) && len(ae.Fields) > 0 {
		body["errors"] = ae.Fields
	}
	return c.Status(status).JSON(body)
}
