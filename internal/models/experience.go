package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Experience struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title      string             `bson:"title" json:"title"`
	Caption    string             `bson:"caption,omitempty" json:"caption,omitempty"`
	Region     string             `bson:"region,omitempty" json:"region,omitempty"`
	Prefecture string             `bson:"prefecture,omitempty" json:"prefecture,omitempty"`
	Categories []string           `bson:"categories,omitempty" json:"categories,omitempty"`
	Price      float64            `bson:"price,omitempty" json:"price,omitempty"`
	Photo      string             `bson:"photo,omitempty" json:"photo,omitempty"`
	CreatedBy  primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updatedAt"`
}
