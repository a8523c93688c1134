package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ProductCategories = []string{
	"Shirt", "Pant", "Trouser", "Blazer", "Suit", "Kurta", "Sherwani", "Other",
}

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Category    string             `bson:"category" json:"category"`
	Gender      string             `bson:"gender" json:"gender"`
	BasePrice   float64            `bson:"basePrice" json:"basePrice"`
	FabricPrice float64            `bson:"fabricPrice" json:"fabricPrice"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
