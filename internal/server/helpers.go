package server

import (
	"datagov/internal/models"

	"github.com/gofiber/fiber/v2"
)

// mapServiceError translates a service-layer error code into an HTTP status.
func mapServiceError(err error) int {
	appErr, ok := err.(*models.AppError)
	if !ok {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case models.CodeNotFound:
		return fiber.StatusNotFound
	case models.CodeConflict:
		return fiber.StatusConflict
	case models.CodeBusinessRule:
		return fiber.StatusForbidden
	case models.CodeValidation:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// respondServiceError writes a service-layer error with its mapped status.
func respondServiceError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, mapServiceError(err), err)
}

// requireID extracts a non-empty route parameter. An empty value cannot
// normally happen through the router, but handlers still guard against it.
func requireID(c *fiber.Ctx, param string) (string, bool) {
	id := c.Params(param)
	if id == "" {
		return "", false
	}
	return id, true
}
