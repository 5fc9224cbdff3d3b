package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workflow categories a task can occupy.
const (
	CategoryToDo       = "To-Do"
	CategoryInProgress = "In Progress"
	CategoryDone       = "Done"
)

// Categories lists the valid workflow categories in board order.
var Categories = []string{CategoryToDo, CategoryInProgress, CategoryDone}

// ValidCategory reports whether c is one of the three workflow categories.
func ValidCategory(c string) bool {
	switch c {
	case CategoryToDo, CategoryInProgress, CategoryDone:
		return true
	}
	return false
}

type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email       string             `bson:"email" json:"email"`
	Category    string             `bson:"category" json:"category"`
	Title       string             `bson:"title,omitempty" json:"title,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   *time.Time         `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

type CreateTaskRequest struct {
	Email       string `json:"email" validate:"required"`
	Category    string `json:"category" validate:"required,taskcategory"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateTaskRequest carries a field-merge update: only the keys present in
// UpdatedTask change, everything else on the document stays untouched.
type UpdateTaskRequest struct {
	TaskID      string                 `json:"taskId"`
	UpdatedTask map[string]interface{} `json:"updatedTask"`
}

type UpdateCategoryRequest struct {
	TaskID          string `json:"taskId"`
	UpdatedCategory string `json:"updatedCategory"`
}
