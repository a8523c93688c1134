package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductSnapshot is the denormalized product state captured when an item is
// added to the cart. It is not a live reference to the products collection.
type ProductSnapshot struct {
	ID          string  `bson:"id" json:"id"`
	Name        string  `bson:"name" json:"name"`
	Image       string  `bson:"image,omitempty" json:"image,omitempty"`
	Category    string  `bson:"category,omitempty" json:"category,omitempty"`
	BasePrice   float64 `bson:"basePrice" json:"basePrice"`
	FabricPrice float64 `bson:"fabricPrice" json:"fabricPrice"`
}

// Customization holds optional fabric customization for a cart item.
type Customization struct {
	FabricType     string `bson:"fabricType,omitempty" json:"fabricType,omitempty"`
	Color          string `bson:"color,omitempty" json:"color,omitempty"`
	Description    string `bson:"description,omitempty" json:"description,omitempty"`
	ReferenceImage string `bson:"referenceImage,omitempty" json:"referenceImage,omitempty"`
}

// CartItem is a pending selection tagged with a target profile.
type CartItem struct {
	ID            string          `bson:"id" json:"id"`
	Product       ProductSnapshot `bson:"product" json:"product"`
	WithFabric    bool            `bson:"withFabric" json:"withFabric"`
	ProfileID     string          `bson:"profileId" json:"profileId"`
	Quantity      int             `bson:"quantity" json:"quantity"`
	Customization *Customization  `bson:"customization,omitempty" json:"customization,omitempty"`
}

// Cart is the single per-user list of pending selections, created lazily.
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Items     []CartItem         `bson:"items" json:"items"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
