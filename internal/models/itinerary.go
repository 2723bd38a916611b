package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TravelerRoleEditor = "editor"
	TravelerRoleViewer = "viewer"
)

// Traveler is a membership record in an itinerary roster. UserID is unique within a roster.
type Traveler struct {
	UserID primitive.ObjectID `bson:"user" json:"userId"`
	Role   string             `bson:"role" json:"role"`
}

// Board groups favorites inside an itinerary.
type Board struct {
	Name      string               `bson:"name,omitempty" json:"name,omitempty"`
	Favorites []primitive.ObjectID `bson:"favorites" json:"favorites"`
}

type Itinerary struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	TravelDays  int                `bson:"travel_days" json:"travelDays"`
	TotalBudget float64            `bson:"total_budget" json:"totalBudget"`
	Notes       string             `bson:"notes" json:"notes"`
	IsPrivate   bool               `bson:"is_private" json:"isPrivate"`
	Boards      []Board            `bson:"boards" json:"boards"`
	Travelers   []Traveler         `bson:"travelers" json:"travelers"`
	OwnerID     primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// HasTraveler reports whether userID is on the roster.
func (it *Itinerary) HasTraveler(userID primitive.ObjectID) bool {
	for _, t := range it.Travelers {
		if t.UserID == userID {
			return true
		}
	}
	return false
}

// FavoriteIDs returns every favorite referenced by any board, in board order.
func (it *Itinerary) FavoriteIDs() []primitive.ObjectID {
	var ids []primitive.ObjectID
	for _, b := range it.Boards {
		ids = append(ids, b.Favorites...)
	}
	return ids
}

// ItineraryCreate is the payload accepted when creating an itinerary.
type ItineraryCreate struct {
	Name        string     `json:"name"`
	TravelDays  int        `json:"travelDays"`
	TotalBudget float64    `json:"totalBudget"`
	Notes       string     `json:"notes"`
	IsPrivate   *bool      `json:"isPrivate"`
	Boards      []Board    `json:"boards"`
	Travelers   []Traveler `json:"travelers"`
}

// ItineraryUpdate carries only the fields a client sent. A nil pointer, an empty
// string or a zero number means "keep the stored value". Boards is applied whenever
// it is non-nil, including an empty list.
type ItineraryUpdate struct {
	Name        *string  `json:"name"`
	TravelDays  *int     `json:"travelDays"`
	TotalBudget *float64 `json:"totalBudget"`
	Notes       *string  `json:"notes"`
	IsPrivate   *bool    `json:"isPrivate"`
	Boards      []Board  `json:"boards"`
}

type TravelerView struct {
	User *PublicUser `json:"user"`
	Role string      `json:"role"`
}

// ItinerarySummary is an itinerary with owner and travelers expanded.
type ItinerarySummary struct {
	ID          primitive.ObjectID `json:"id"`
	Name        string             `json:"name"`
	TravelDays  int                `json:"travelDays"`
	TotalBudget float64            `json:"totalBudget"`
	Notes       string             `json:"notes"`
	IsPrivate   bool               `json:"isPrivate"`
	Owner       *PublicUser        `json:"user"`
	Travelers   []TravelerView     `json:"travelers"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

type ResolvedFavorite struct {
	FavoriteID primitive.ObjectID `json:"favoriteId"`
	Experience *Experience        `json:"experience"`
}

type ResolvedBoard struct {
	Name      string             `json:"name,omitempty"`
	Favorites []ResolvedFavorite `json:"favorites"`
}

// ItineraryDetail is the read view: each favorite resolved to its experience.
type ItineraryDetail struct {
	ItinerarySummary
	Boards []ResolvedBoard `json:"boards"`
}

type PopulatedBoard struct {
	Name      string                   `json:"name,omitempty"`
	Favorites []FavoriteWithExperience `json:"favorites"`
}

// ItineraryEdit is the edit view: full favorite documents with experiences expanded.
type ItineraryEdit struct {
	ItinerarySummary
	Boards []PopulatedBoard `json:"boards"`
}
