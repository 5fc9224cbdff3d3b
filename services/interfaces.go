package services

import (
	"context"

	"taskflow/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	InsertTask(ctx context.Context, task *models.Task) (*models.Task, error)
	UpdateTask(ctx context.Context, id primitive.ObjectID, fields bson.M) (int64, error)
	DeleteTask(ctx context.Context, id primitive.ObjectID) (int64, error)
	AllTasks(ctx context.Context) ([]models.Task, error)
	TasksByOwner(ctx context.Context, email string) ([]models.Task, error)
	TasksByOwnerAndCategory(ctx context.Context, email, category string) ([]models.Task, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	InsertUser(ctx context.Context, user *models.User) (*models.User, error)
}

// Broadcaster delivers a change event to all connected realtime clients.
// Delivery is best-effort and must never block the caller.
type Broadcaster interface {
	Broadcast(event string)
}
