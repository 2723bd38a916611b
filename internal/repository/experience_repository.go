package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dias221467/Travel_Planner/internal/models"
	"github.com/Dias221467/Travel_Planner/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ExperienceRepository struct {
	collection *mongo.Collection
}

func NewExperienceRepository(db *mongo.Database) *ExperienceRepository {
	return &ExperienceRepository{
		collection: db.Collection("experiences"),
	}
}

func (r *ExperienceRepository) CreateExperience(ctx context.Context, exp *models.Experience) (*models.Experience, error) {
	exp.CreatedAt = time.Now()
	exp.UpdatedAt = exp.CreatedAt

	result, err := r.collection.InsertOne(ctx, exp)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert experience")
		return nil, fmt.Errorf("failed to create experience: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	exp.ID = insertedID
	return exp, nil
}

func (r *ExperienceRepository) GetExperienceByID(ctx context.Context, id primitive.ObjectID) (*models.Experience, error) {
	var exp models.Experience
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&exp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find experience: %v", err)
	}
	return &exp, nil
}

// GetExperiencesByIDs returns the experiences that still exist among ids.
func (r *ExperienceRepository) GetExperiencesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Experience, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, 0)
}

// GetAllExperiences returns experiences newest first, at most limit when limit > 0.
func (r *ExperienceRepository) GetAllExperiences(ctx context.Context, limit int64) ([]models.Experience, error) {
	return r.find(ctx, bson.M{}, limit)
}

func (r *ExperienceRepository) find(ctx context.Context, filter bson.M, limit int64) ([]models.Experience, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch experiences: %v", err)
	}
	defer cursor.Close(ctx)

	experiences := []models.Experience{}
	if err := cursor.All(ctx, &experiences); err != nil {
		return nil, fmt.Errorf("failed to decode experiences: %v", err)
	}
	return experiences, nil
}
