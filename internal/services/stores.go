package services

import (
	"context"

	"github.com/Dias221467/Travel_Planner/internal/models"
	"github.com/Dias221467/Travel_Planner/internal/outbox"
	"github.com/Dias221467/Travel_Planner/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ItineraryStore is the persistence the itinerary service needs.
type ItineraryStore interface {
	CreateItinerary(ctx context.Context, it *models.Itinerary) (*models.Itinerary, error)
	GetItineraryByID(ctx context.Context, id primitive.ObjectID) (*models.Itinerary, error)
	GetAllItineraries(ctx context.Context) ([]models.Itinerary, error)
	GetItinerariesByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Itinerary, error)
	GetItinerariesByTraveler(ctx context.Context, userID primitive.ObjectID) ([]models.Itinerary, error)
	UpdateItineraryFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	DeleteItinerary(ctx context.Context, id primitive.ObjectID) error
	AddTraveler(ctx context.Context, id primitive.ObjectID, traveler models.Traveler) (bool, error)
	UpdateTravelerRole(ctx context.Context, id, userID primitive.ObjectID, role string) (bool, error)
	RemoveTraveler(ctx context.Context, id, userID primitive.ObjectID) error
}

type FavoriteStore interface {
	CreateFavorite(ctx context.Context, fav *models.Favorite) (*models.Favorite, error)
	GetFavorite(ctx context.Context, userID, experienceID primitive.ObjectID) (*models.Favorite, error)
	DeleteFavorite(ctx context.Context, userID, experienceID primitive.ObjectID) error
	GetFavoritesByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Favorite, error)
	GetFavoritesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Favorite, error)
	CountByExperience(ctx context.Context, experienceID primitive.ObjectID) (int64, error)
}

type ExperienceStore interface {
	CreateExperience(ctx context.Context, exp *models.Experience) (*models.Experience, error)
	GetExperienceByID(ctx context.Context, id primitive.ObjectID) (*models.Experience, error)
	GetExperiencesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Experience, error)
	GetAllExperiences(ctx context.Context, limit int64) ([]models.Experience, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	AddFriend(ctx context.Context, userID, friendID primitive.ObjectID) error
	RemoveFriend(ctx context.Context, userID, friendID primitive.ObjectID) error
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, notif *models.Notification) error
	GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, id, userID primitive.ObjectID) error
	DeleteNotification(ctx context.Context, id, userID primitive.ObjectID) error
}

// NotificationOutbox holds notifications whose first write failed.
type NotificationOutbox interface {
	Push(ctx context.Context, n *models.Notification) error
	Requeue(ctx context.Context, e outbox.Entry) error
	Pop(ctx context.Context, max int) ([]outbox.Entry, error)
}

// NotificationPublisher pushes persisted notifications to connected clients.
type NotificationPublisher interface {
	Publish(n *models.Notification)
}

var (
	_ ItineraryStore     = (*repository.ItineraryRepository)(nil)
	_ FavoriteStore      = (*repository.FavoriteRepository)(nil)
	_ ExperienceStore    = (*repository.ExperienceRepository)(nil)
	_ UserStore          = (*repository.UserRepository)(nil)
	_ NotificationStore  = (*repository.NotificationRepository)(nil)
	_ NotificationOutbox = (*outbox.RedisOutbox)(nil)
)
