package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Favorite is a user's saved reference to an experience. It is either present or absent.
type Favorite struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"userId"`
	ExperienceID primitive.ObjectID `bson:"experience_id" json:"experienceId"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
}

// FavoriteWithExperience is a favorite whose experience reference has been expanded.
// Experience is nil when the referenced experience no longer exists.
type FavoriteWithExperience struct {
	ID         primitive.ObjectID `json:"id"`
	UserID     primitive.ObjectID `json:"userId"`
	Experience *Experience        `json:"experience"`
	CreatedAt  time.Time          `json:"createdAt"`
}
