package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"palletbay/internal/domain"
	"palletbay/internal/log"
	"palletbay/internal/validate"
)

const msgInternal = "Something went wrong. Please try again."

// fail writes the JSON error body for err. Storage failures are logged
// under action and answered with a generic message.
func fail(c *fiber.Ctx, action string, err error) error {
	var fields validate.FieldErrors
	switch {
	case errors.As(err, &fields):
		log.Info(c, action+".invalid", map[string]any{"fields": fields})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input", "fields": fields})
	case errors.Is(err, domain.ErrValidation):
		log.Info(c, action+".invalid", map[string]any{"reason": err.Error()})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrReference):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrAuthorization):
		log.Security(c, action+".denied", nil)
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	default:
		log.Error(c, action+".fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msgInternal})
	}
}

// ErrorHandler is the app-wide fallback for errors that escape a handler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	log.Error(c, "server.error", err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msgInternal})
}
