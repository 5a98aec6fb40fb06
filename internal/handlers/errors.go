package handlers

import (
	"errors"
	"log"

	"rental/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders every error returned by a handler or middleware as a
// structured response. Install it with fiber.Config{ErrorHandler: ErrorHandler}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"kind":    kindForStatus(fiberErr.Code),
			"message": fiberErr.Message,
		})
	}

	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)
	if kind == apperr.KindInternal {
		log.Printf("Internal error on %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(status).JSON(fiber.Map{
			"kind":    kind,
			"message": "internal server error",
		})
	}

	body := fiber.Map{
		"kind":    kind,
		"message": err.Error(),
	}
	if fields := apperr.FieldsOf(err); len(fields) > 0 {
		body["errors"] = fields
	}
	return c.Status(status).JSON(body)
}

func kindForStatus(status int) apperr.Kind {
	switch status {
	case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge, fiber.StatusUnprocessableEntity:
		return apperr.KindValidation
	case fiber.StatusNotFound:
		return apperr.KindNotFound
	case fiber.StatusUnauthorized:
		return apperr.KindUnauthorized
	case fiber.StatusForbidden:
		return apperr.KindForbidden
	default:
		return apperr.KindInternal
	}
}

// invalidBody wraps a body parsing failure as a ValidationError.
func invalidBody(err error) error {
	log.Printf("Error parsing request body: %v", err)
	return apperr.Validation(map[string]string{"body": "Invalid request body"})
}
