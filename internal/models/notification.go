package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	NotificationInvite          = "invite"
	NotificationUpdate          = "update"
	NotificationLeave           = "leave"
	NotificationTravelerRemoved = "traveler_removed"
	NotificationFriendAdded     = "friend_added"
)

// Notification is a recipient-addressed record of something that happened elsewhere.
type Notification struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID  `bson:"user_id" json:"recipient"`
	SenderID    *primitive.ObjectID `bson:"sender_id,omitempty" json:"sender,omitempty"`
	Type        string              `bson:"type" json:"type"`
	Title       string              `bson:"title" json:"title"`
	Message     string              `bson:"message" json:"message"`
	ItineraryID *primitive.ObjectID `bson:"itinerary_id,omitempty" json:"itinerary,omitempty"`
	Read        bool                `bson:"read" json:"read"`
	CreatedAt   time.Time           `bson:"created_at" json:"createdAt"`
}
