package services

import "errors"

// Common service-level errors
var (
	// Task errors
	ErrTaskNotFound    = errors.New("task not found or no changes made")
	ErrInvalidTaskID   = errors.New("invalid task id")
	ErrEmptyUpdate     = errors.New("task ID and updated task data are required")
	ErrInvalidCategory = errors.New("category must be one of: To-Do, In Progress, Done")
)
