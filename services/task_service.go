package services

import (
	"context"
	"time"

	"taskflow/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskUpdatedEvent is the tag broadcast to realtime clients after every
// successful mutation. Clients re-fetch state on receipt; there is no
// payload and no replay.
const TaskUpdatedEvent = "taskUpdated"

// TaskService handles business logic for tasks. Every mutation persists
// first and broadcasts exactly once after the write is acknowledged; reads
// and failed mutations never broadcast.
type TaskService struct {
	repo     TaskRepository
	notifier Broadcaster
}

// NewTaskService creates a new task service
func NewTaskService(repo TaskRepository, notifier Broadcaster) *TaskService {
	return &TaskService{
		repo:     repo,
		notifier: notifier,
	}
}

// Create inserts a new task with a server-set creation timestamp.
func (ts *TaskService) Create(ctx context.Context, req models.CreateTaskRequest) (*models.Task, error) {
	if !models.ValidCategory(req.Category) {
		return nil, ErrInvalidCategory
	}

	task := &models.Task{
		Email:       req.Email,
		Category:    req.Category,
		Title:       req.Title,
		Description: req.Description,
		CreatedAt:   time.Now(),
	}

	task, err := ts.repo.InsertTask(ctx, task)
	if err != nil {
		return nil, err
	}

	ts.notifier.Broadcast(TaskUpdatedEvent)
	return task, nil
}

// Update merges the given fields into the task document. Only the named
// fields change; updatedAt is re-stamped on every merge.
func (ts *TaskService) Update(ctx context.Context, taskID string, fields map[string]interface{}) error {
	if taskID == "" || len(fields) == 0 {
		return ErrEmptyUpdate
	}

	id, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return ErrInvalidTaskID
	}

	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	// The ID and creation time are immutable.
	delete(set, "_id")
	delete(set, "createdAt")
	if len(set) == 0 {
		return ErrEmptyUpdate
	}

	if category, ok := set["category"]; ok {
		s, isString := category.(string)
		if !isString || !models.ValidCategory(s) {
			return ErrInvalidCategory
		}
	}
	set["updatedAt"] = time.Now()

	modified, err := ts.repo.UpdateTask(ctx, id, set)
	if err != nil {
		return err
	}
	if modified == 0 {
		return ErrTaskNotFound
	}

	ts.notifier.Broadcast(TaskUpdatedEvent)
	return nil
}

// UpdateCategory moves a task to another workflow category.
func (ts *TaskService) UpdateCategory(ctx context.Context, taskID, category string) error {
	if taskID == "" || category == "" {
		return ErrEmptyUpdate
	}
	if !models.ValidCategory(category) {
		return ErrInvalidCategory
	}

	id, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return ErrInvalidTaskID
	}

	modified, err := ts.repo.UpdateTask(ctx, id, bson.M{
		"category":  category,
		"updatedAt": time.Now(),
	})
	if err != nil {
		return err
	}
	if modified == 0 {
		return ErrTaskNotFound
	}

	ts.notifier.Broadcast(TaskUpdatedEvent)
	return nil
}

// Delete removes a task by ID.
func (ts *TaskService) Delete(ctx context.Context, taskID string) error {
	id, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return ErrTaskNotFound
	}

	deleted, err := ts.repo.DeleteTask(ctx, id)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrTaskNotFound
	}

	ts.notifier.Broadcast(TaskUpdatedEvent)
	return nil
}

// List returns all tasks in store order.
func (ts *TaskService) List(ctx context.Context) ([]models.Task, error) {
	return ts.repo.AllTasks(ctx)
}

// ListByOwner returns all tasks owned by email (exact match).
func (ts *TaskService) ListByOwner(ctx context.Context, email string) ([]models.Task, error) {
	return ts.repo.TasksByOwner(ctx, email)
}

// ListByOwnerAndCategory returns the tasks owned by email in the given
// workflow category.
func (ts *TaskService) ListByOwnerAndCategory(ctx context.Context, email, category string) ([]models.Task, error) {
	return ts.repo.TasksByOwnerAndCategory(ctx, email, category)
}
