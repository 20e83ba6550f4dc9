package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	domain "github.com/vidhun05/To-Do/domain/task"
)

// Client-facing error messages.
const (
	msgTaskNotFound        = "Task not found"
	msgInvalidSubtaskIndex = "Invalid subtask index"
	msgInvalidBody         = "Invalid request body"
	msgInternal            = "Internal server error"
)

var errPortsNotSet = errors.New("task and activity ports must be set")

// respondError maps domain errors onto status codes and response bodies.
func (h *Handlers) respondError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: msgTaskNotFound})
	case errors.Is(err, domain.ErrInvalidSubtaskIndex):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgInvalidSubtaskIndex})
	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ValidationErrorResponse{Errors: verr.Fields})
	default:
		h.logger.Error("request failed", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: msgInternal})
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: message})
}

// errorHandler converts errors that escape a handler into JSON.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := msgInternal

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{Error: message})
}
