package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dias221467/Travel_Planner/internal/models"
	"github.com/Dias221467/Travel_Planner/pkg/logger"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ItineraryRepository handles database operations related to itineraries.
type ItineraryRepository struct {
	collection *mongo.Collection
}

// NewItineraryRepository creates a new instance of ItineraryRepository.
func NewItineraryRepository(db *mongo.Database) *ItineraryRepository {
	return &ItineraryRepository{
		collection: db.Collection("itineraries"),
	}
}

// CreateItinerary stores a new itinerary and sets its ID.
func (r *ItineraryRepository) CreateItinerary(ctx context.Context, it *models.Itinerary) (*models.Itinerary, error) {
	it.CreatedAt = time.Now()
	it.UpdatedAt = it.CreatedAt
	if it.Boards == nil {
		it.Boards = []models.Board{}
	}
	if it.Travelers == nil {
		it.Travelers = []models.Traveler{}
	}

	result, err := r.collection.InsertOne(ctx, it)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert itinerary")
		return nil, fmt.Errorf("failed to insert itinerary: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	it.ID = insertedID

	logger.Log.WithField("itinerary_id", it.ID.Hex()).Info("Itinerary created successfully")
	return it, nil
}

// GetItineraryByID fetches a single itinerary.
func (r *ItineraryRepository) GetItineraryByID(ctx context.Context, id primitive.ObjectID) (*models.Itinerary, error) {
	var it models.Itinerary
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&it)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Log.WithError(err).WithField("itinerary_id", id.Hex()).Error("Failed to find itinerary by ID")
		return nil, fmt.Errorf("failed to find itinerary: %v", err)
	}
	return &it, nil
}

// GetAllItineraries returns every itinerary, newest first.
func (r *ItineraryRepository) GetAllItineraries(ctx context.Context) ([]models.Itinerary, error) {
	return r.find(ctx, bson.M{})
}

// GetItinerariesByOwner returns the itineraries created by ownerID.
func (r *ItineraryRepository) GetItinerariesByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Itinerary, error) {
	return r.find(ctx, bson.M{"user": ownerID})
}

// GetItinerariesByTraveler returns the itineraries whose roster contains userID.
func (r *ItineraryRepository) GetItinerariesByTraveler(ctx context.Context, userID primitive.ObjectID) ([]models.Itinerary, error) {
	return r.find(ctx, bson.M{"travelers.user": userID})
}

func (r *ItineraryRepository) find(ctx context.Context, filter bson.M) ([]models.Itinerary, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch itineraries")
		return nil, fmt.Errorf("failed to fetch itineraries: %v", err)
	}
	defer cursor.Close(ctx)

	itineraries := []models.Itinerary{}
	if err := cursor.All(ctx, &itineraries); err != nil {
		return nil, fmt.Errorf("failed to decode itineraries: %v", err)
	}
	return itineraries, nil
}

// UpdateItineraryFields sets the given fields. Returns ErrNotFound if the itinerary is gone.
func (r *ItineraryRepository) UpdateItineraryFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	set := bson.M{"updated_at": time.Now()}
	for k, v := range fields {
		set[k] = v
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		logger.Log.WithError(err).WithField("itinerary_id", id.Hex()).Error("Failed to update itinerary")
		return fmt.Errorf("failed to update itinerary: %v", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteItinerary removes the itinerary document only.
func (r *ItineraryRepository) DeleteItinerary(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Log.WithError(err).WithField("itinerary_id", id.Hex()).Error("Failed to delete itinerary")
		return fmt.Errorf("failed to delete itinerary: %v", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	logger.Log.WithField("itinerary_id", id.Hex()).Info("Itinerary deleted successfully")
	return nil
}

// AddTraveler appends a traveler unless the user is already on the roster.
// The membership check is part of the update filter, so it reports false
// when another request added the same user first.
func (r *ItineraryRepository) AddTraveler(ctx context.Context, id primitive.ObjectID, traveler models.Traveler) (bool, error) {
	filter := bson.M{
		"_id":            id,
		"travelers.user": bson.M{"$ne": traveler.UserID},
	}
	update := bson.M{
		"$push": bson.M{"travelers": traveler},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		logger.Log.WithError(err).WithFields(logrus.Fields{
			"itinerary_id": id.Hex(),
			"traveler_id":  traveler.UserID.Hex(),
		}).Error("Failed to add traveler")
		return false, fmt.Errorf("failed to add traveler: %v", err)
	}
	return result.MatchedCount > 0, nil
}

// UpdateTravelerRole changes the role of an existing roster entry.
// It reports false when the user is not on the roster.
func (r *ItineraryRepository) UpdateTravelerRole(ctx context.Context, id, userID primitive.ObjectID, role string) (bool, error) {
	filter := bson.M{"_id": id, "travelers.user": userID}
	update := bson.M{"$set": bson.M{
		"travelers.$.role": role,
		"updated_at":       time.Now(),
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		logger.Log.WithError(err).WithFields(logrus.Fields{
			"itinerary_id": id.Hex(),
			"traveler_id":  userID.Hex(),
		}).Error("Failed to update traveler role")
		return false, fmt.Errorf("failed to update traveler role: %v", err)
	}
	return result.MatchedCount > 0, nil
}

// RemoveTraveler pulls userID from the roster. Removing an absent user is not an error.
func (r *ItineraryRepository) RemoveTraveler(ctx context.Context, id, userID primitive.ObjectID) error {
	update := bson.M{
		"$pull": bson.M{"travelers": bson.M{"user": userID}},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		logger.Log.WithError(err).WithFields(logrus.Fields{
			"itinerary_id": id.Hex(),
			"traveler_id":  userID.Hex(),
		}).Error("Failed to remove traveler")
		return fmt.Errorf("failed to remove traveler: %v", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
