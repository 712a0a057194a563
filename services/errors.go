package services

import (
	"errors"
	"log"

	"sports-prediction-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// writeError maps domain errors to HTTP responses. Callers are expected to
// render 401 as a sign-in prompt, 403 deadline as a locked read-only view,
// and 400 as an inline form error.
func writeError(c *fiber.Ctx, err error) error {
	var validationErr *models.ValidationError
	switch {
	case errors.Is(err, models.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case models.IsNotFoundError(err) || errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, models.ErrDeadlinePassed):
		// distinct from validation failures so clients can render a locked state
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error(), "locked": true})
	case errors.Is(err, models.ErrAlreadyRegistered):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &validationErr):
		resp := fiber.Map{"error": validationErr.Msg}
		if len(validationErr.TeamIDs) > 0 {
			resp["team_ids"] = validationErr.TeamIDs
		}
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	default:
		log.Printf("ERROR: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
}
