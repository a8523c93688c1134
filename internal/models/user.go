package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SelfProfileID is the reserved identifier of the synthesized profile built
// from the account's own fields. It is never stored as an embedded profile.
const SelfProfileID = "me"

// Address represents a single address entry for a user.
type Address struct {
	Street  string `bson:"street,omitempty" json:"street,omitempty"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`
	State   string `bson:"state,omitempty" json:"state,omitempty"`
	Zip     string `bson:"zip,omitempty" json:"zip,omitempty"`
	Country string `bson:"country,omitempty" json:"country,omitempty"`
}

// Profile is a named measurement record embedded in the owning user.
// Embedded profile IDs are generated and are never the literal "me".
type Profile struct {
	ID           string `bson:"id" json:"id"`
	Name         string `bson:"name" json:"name"`
	Phone        string `bson:"phone,omitempty" json:"phone,omitempty"`
	Email        string `bson:"email,omitempty" json:"email,omitempty"`
	Location     string `bson:"location,omitempty" json:"location,omitempty"`
	Measurements string `bson:"measurements,omitempty" json:"measurements,omitempty"`
	IsSelf       bool   `bson:"-" json:"isSelf,omitempty"`
}

// User represents the application user account.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Phone        string             `bson:"phone" json:"phone"`
	Role         string             `bson:"role" json:"role"`
	Gender       string             `bson:"gender" json:"gender"`
	Addresses    []Address          `bson:"addresses" json:"addresses"`
	Profiles     []Profile          `bson:"profiles" json:"profiles"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

const (
	RoleUser   = "user"
	RoleAdmin  = "admin"
	RoleTailor = "tailor"
)
