package handlers

import (
	"errors"
	"log/slog"

	"taskflow/services"

	"github.com/gofiber/fiber/v2"
)

func success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(data)
}

func created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": message})
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": message})
}

func serverErrorWithDetails(c *fiber.Ctx, message string, err error) error {
	requestID := ""
	if id, ok := c.Locals("requestID").(string); ok {
		requestID = id
	}

	slog.Error("server error",
		"request_id", requestID,
		"method", c.Method(),
		"path", c.Path(),
		"message", message,
		"error", err,
	)

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal Server Error"})
}

// taskError maps service errors onto the HTTP surface; anything outside the
// known taxonomy is a store failure and renders as a 500.
func taskError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, services.ErrEmptyUpdate),
		errors.Is(err, services.ErrInvalidTaskID),
		errors.Is(err, services.ErrInvalidCategory):
		return badRequest(c, err.Error())
	default:
		return serverErrorWithDetails(c, "task operation failed", err)
	}
}
