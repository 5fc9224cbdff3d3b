package database

import (
	"context"

	"taskflow/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InsertTask inserts a new task document and fills in the generated ID.
func (r *Repository) InsertTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	res, err := r.tasks.InsertOne(ctx, task)
	if err != nil {
		return nil, err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		task.ID = id
	}
	return task, nil
}

// UpdateTask $set-merges fields into the task document and returns the
// number of documents actually modified.
func (r *Repository) UpdateTask(ctx context.Context, id primitive.ObjectID, fields bson.M) (int64, error) {
	res, err := r.tasks.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// DeleteTask removes the task document and returns the number deleted.
func (r *Repository) DeleteTask(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.tasks.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *Repository) AllTasks(ctx context.Context) ([]models.Task, error) {
	return r.findTasks(ctx, bson.M{})
}

func (r *Repository) TasksByOwner(ctx context.Context, email string) ([]models.Task, error) {
	return r.findTasks(ctx, bson.M{"email": email})
}

func (r *Repository) TasksByOwnerAndCategory(ctx context.Context, email, category string) ([]models.Task, error) {
	return r.findTasks(ctx, bson.M{"email": email, "category": category})
}

func (r *Repository) findTasks(ctx context.Context, filter bson.M) ([]models.Task, error) {
	cursor, err := r.tasks.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	// Initialize with empty slice to avoid returning nil
	tasks := make([]models.Task, 0)
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}
