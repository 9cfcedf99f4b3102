package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tsjr00/inpersonmarketplace-sub007/internal/repositories"
	"github.com/tsjr00/inpersonmarketplace-sub007/internal/services"
)

// statusForError maps the service error taxonomy to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, repositories.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, repositories.ErrConflict),
		errors.Is(err, repositories.ErrInsufficientStock):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrVendorOnboardingIncomplete):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func errorResponse(c *fiber.Ctx, message string, err error) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}
