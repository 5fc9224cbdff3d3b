package app

import (
	"log/slog"

	"taskflow/notifier"
	"taskflow/services"
	"taskflow/validator"
)

// App holds all application dependencies
// This struct is the central point for dependency injection
type App struct {
	Users     *services.UserService
	Tasks     *services.TaskService
	Hub       *notifier.Hub
	Validator *validator.Validator
	Logger    *slog.Logger
}

// New creates a new App instance with all dependencies
func New(users *services.UserService, tasks *services.TaskService, hub *notifier.Hub, logger *slog.Logger) *App {
	return &App{
		Users:     users,
		Tasks:     tasks,
		Hub:       hub,
		Validator: validator.New(),
		Logger:    logger,
	}
}
