package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskflow/app"
	"taskflow/config"
	"taskflow/database"
	"taskflow/handlers"
	"taskflow/middleware"
	"taskflow/models"
	"taskflow/notifier"
	"taskflow/services"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	config.Load()

	logger := setupLogger()
	slog.SetDefault(logger)

	// Connect to MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := database.New(ctx, config.AppConfig.MongoURI, config.AppConfig.DBName)
	cancel()
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer closeCancel()
		if err := db.Close(closeCtx); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	idxCtx, idxCancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = db.EnsureIndexes(idxCtx)
	idxCancel()
	if err != nil {
		logger.Error("failed to create indexes", "error", err)
		os.Exit(1)
	}
	logger.Info("database initialized", "name", config.AppConfig.DBName)

	// Create repositories, services and the realtime hub
	repo := database.NewRepository(db)
	hub := notifier.New(logger)
	users := services.NewUserService(repo)
	tasks := services.NewTaskService(repo, hub)

	application := app.New(users, tasks, hub, logger)

	fiberApp := fiber.New(fiber.Config{
		ReadTimeout:           time.Second * 10,
		WriteTimeout:          time.Second * 10,
		IdleTimeout:           time.Second * 30,
		DisableStartupMessage: config.AppConfig.Env == "production",
		ErrorHandler:          customErrorHandler(logger),
	})

	fiberApp.Use(
		recover.New(),
		middleware.StructuredLogger(logger),
		middleware.Security(),
		cors.New(cors.Config{
			AllowOrigins:     config.AppConfig.CORSOrigins,
			AllowMethods:     "GET,POST,DELETE,OPTIONS",
			AllowHeaders:     "Origin,Content-Type,Accept",
			AllowCredentials: true,
			MaxAge:           86400,
		}),
		limiter.New(limiter.Config{
			Max:        200,
			Expiration: time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"message": "Rate limit exceeded",
				})
			},
		}),
	)

	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Task management server is running..")
	})
	fiberApp.Get("/health", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })

	fiberApp.Post("/users/:email", handlers.UpsertUser(application))

	fiberApp.Post("/tasks", handlers.CreateTask(application))
	fiberApp.Post("/tasks/update", handlers.UpdateTask(application))
	fiberApp.Post("/tasks/update-category", handlers.UpdateTaskCategory(application))
	fiberApp.Get("/tasks", handlers.GetTasks(application))
	// Fixed-segment category routes must come before the :email wildcard.
	fiberApp.Get("/tasks/todo/:email", handlers.GetTasksByOwnerAndCategory(application, models.CategoryToDo))
	fiberApp.Get("/tasks/inprogress/:email", handlers.GetTasksByOwnerAndCategory(application, models.CategoryInProgress))
	fiberApp.Get("/tasks/done/:email", handlers.GetTasksByOwnerAndCategory(application, models.CategoryDone))
	fiberApp.Get("/tasks/:email", handlers.GetTasksByOwner(application))
	fiberApp.Delete("/tasks/:id", handlers.DeleteTask(application))

	fiberApp.Use("/ws", handlers.RequireWebSocketUpgrade())
	fiberApp.Get("/ws", websocket.New(handlers.Realtime(application)))

	logger.Info("starting server", "port", config.AppConfig.Port, "env", config.AppConfig.Env)

	go func() {
		if err := fiberApp.Listen(":" + config.AppConfig.Port); err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server gracefully")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := fiberApp.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}

func setupLogger() *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     getLogLevel(),
		AddSource: config.AppConfig.Env == "development",
	}

	if config.AppConfig.Env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

func getLogLevel() slog.Level {
	level := config.GetEnv("LOG_LEVEL", "info")
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func customErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			message = e.Message
		}

		requestID := ""
		if id, ok := c.Locals("requestID").(string); ok {
			requestID = id
		}

		logger.Error("request failed",
			"request_id", requestID,
			"method", c.Method(),
			"path", c.Path(),
			"status", code,
			"error", err,
		)

		return c.Status(code).JSON(fiber.Map{
			"message":    message,
			"request_id": requestID,
		})
	}
}
