package database

import "go.mongodb.org/mongo-driver/mongo"

type Repository struct {
	users *mongo.Collection
	tasks *mongo.Collection
}

func NewRepository(db *DB) *Repository {
	return &Repository{
		users: db.Collection("users"),
		tasks: db.Collection("tasks"),
	}
}
