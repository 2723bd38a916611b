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

type FavoriteRepository struct {
	collection *mongo.Collection
}

func NewFavoriteRepository(db *mongo.Database) *FavoriteRepository {
	return &FavoriteRepository{
		collection: db.Collection("favorites"),
	}
}

// CreateFavorite inserts a favorite. A second favorite for the same user and
// experience fails with ErrDuplicate.
func (r *FavoriteRepository) CreateFavorite(ctx context.Context, fav *models.Favorite) (*models.Favorite, error) {
	fav.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, fav)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		logger.Log.WithError(err).Error("Failed to insert favorite")
		return nil, fmt.Errorf("failed to create favorite: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	fav.ID = insertedID
	return fav, nil
}

// GetFavorite finds the favorite linking userID and experienceID.
func (r *FavoriteRepository) GetFavorite(ctx context.Context, userID, experienceID primitive.ObjectID) (*models.Favorite, error) {
	var fav models.Favorite
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID, "experience_id": experienceID}).Decode(&fav)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find favorite: %v", err)
	}
	return &fav, nil
}

// DeleteFavorite removes the favorite linking userID and experienceID.
func (r *FavoriteRepository) DeleteFavorite(ctx context.Context, userID, experienceID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID, "experience_id": experienceID})
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %v", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetFavoritesByUser returns a user's favorites, newest first.
func (r *FavoriteRepository) GetFavoritesByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Favorite, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"user_id": userID}, opts)
}

// GetFavoritesByIDs returns the favorites that still exist among ids.
func (r *FavoriteRepository) GetFavoritesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Favorite, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *FavoriteRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Favorite, error) {
	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch favorites: %v", err)
	}
	defer cursor.Close(ctx)

	var favorites []models.Favorite
	if err := cursor.All(ctx, &favorites); err != nil {
		return nil, fmt.Errorf("failed to decode favorites: %v", err)
	}
	return favorites, nil
}

// CountByExperience returns how many users favorited the experience.
func (r *FavoriteRepository) CountByExperience(ctx context.Context, experienceID primitive.ObjectID) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"experience_id": experienceID})
	if err != nil {
		return 0, fmt.Errorf("failed to count favorites: %v", err)
	}
	return n, nil
}
