package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RefreshToken struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	TokenHash       string             `bson:"tokenHash" json:"-"`
	ExpiresAt       time.Time          `bson:"expiresAt" json:"expiresAt"`
	Revoked         *time.Time         `bson:"revoked,omitempty" json:"revoked,omitempty"`
	ReplacedByToken string             `bson:"replacedByToken,omitempty" json:"-"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

func (t RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

func (t RefreshToken) IsActive(now time.Time) bool {
	return t.Revoked == nil && !t.IsExpired(now)
}
