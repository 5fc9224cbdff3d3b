package handlers

import (
	"taskflow/app"
	"taskflow/models"

	"github.com/gofiber/fiber/v2"
)

// CreateTask inserts a new task and notifies connected clients.
func CreateTask(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CreateTaskRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(req); err != nil {
			return badRequest(c, err.Error())
		}

		task, err := a.Tasks.Create(c.UserContext(), req)
		if err != nil {
			return taskError(c, err)
		}

		return created(c, task)
	}
}

// UpdateTask merges the supplied fields into an existing task.
func UpdateTask(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.UpdateTaskRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if req.TaskID == "" || len(req.UpdatedTask) == 0 {
			return badRequest(c, "Task ID and updated task data are required")
		}

		if err := a.Tasks.Update(c.UserContext(), req.TaskID, req.UpdatedTask); err != nil {
			return taskError(c, err)
		}

		return success(c, fiber.Map{"message": "Task updated successfully"})
	}
}

// UpdateTaskCategory moves a task between workflow columns.
func UpdateTaskCategory(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.UpdateCategoryRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if req.TaskID == "" || req.UpdatedCategory == "" {
			return badRequest(c, "Task ID and updated category are required")
		}

		if err := a.Tasks.UpdateCategory(c.UserContext(), req.TaskID, req.UpdatedCategory); err != nil {
			return taskError(c, err)
		}

		return success(c, fiber.Map{"message": "Task category updated successfully"})
	}
}

// GetTasks lists every task.
func GetTasks(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tasks, err := a.Tasks.List(c.UserContext())
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch tasks", err)
		}
		return success(c, tasks)
	}
}

// GetTasksByOwner lists the tasks owned by the email in the path.
func GetTasksByOwner(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tasks, err := a.Tasks.ListByOwner(c.UserContext(), c.Params("email"))
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch tasks", err)
		}
		return success(c, tasks)
	}
}

// GetTasksByOwnerAndCategory lists an owner's tasks in one fixed workflow
// category; each category route binds its own instance.
func GetTasksByOwnerAndCategory(a *app.App, category string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tasks, err := a.Tasks.ListByOwnerAndCategory(c.UserContext(), c.Params("email"), category)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch tasks", err)
		}
		return success(c, tasks)
	}
}

// DeleteTask removes a task by ID and notifies connected clients.
func DeleteTask(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := a.Tasks.Delete(c.UserContext(), c.Params("id")); err != nil {
			return taskError(c, err)
		}
		return success(c, fiber.Map{"message": "Task deleted successfully"})
	}
}
