package services

import (
	"context"
	"time"

	"taskflow/models"
)

// UserService handles business logic for users
type UserService struct {
	repo UserRepository
}

// NewUserService creates a new user service
func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Upsert returns the stored user for email, creating it on first call.
// Subsequent calls for the same email are no-ops that return the existing
// document unchanged; the creation timestamp is set once, server-side.
func (us *UserService) Upsert(ctx context.Context, email string, req models.UpsertUserRequest) (*models.User, error) {
	existing, err := us.repo.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	user := &models.User{
		Email:     email,
		Name:      req.Name,
		Photo:     req.Photo,
		Timestamp: time.Now(),
	}
	return us.repo.InsertUser(ctx, user)
}
