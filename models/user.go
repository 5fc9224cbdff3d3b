package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email     string             `bson:"email" json:"email"`
	Name      string             `bson:"name,omitempty" json:"name,omitempty"`
	Photo     string             `bson:"photo,omitempty" json:"photo,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

type UpsertUserRequest struct {
	Name  string `json:"name"`
	Photo string `json:"photo"`
}
