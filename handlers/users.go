package handlers

import (
	"taskflow/app"
	"taskflow/models"

	"github.com/gofiber/fiber/v2"
)

// UpsertUser stores the user for the email in the path on first call and
// returns the existing document unchanged on every call after that.
func UpsertUser(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := c.Params("email")
		if email == "" {
			return badRequest(c, "email is required")
		}

		var req models.UpsertUserRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		user, err := a.Users.Upsert(c.UserContext(), email, req)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to save user", err)
		}

		return success(c, user)
	}
}
