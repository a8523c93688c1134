package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order status lifecycle. Transitions are driven by the tailoring process
// and are not guarded programmatically; any listed value is settable.
const (
	StatusPending           = "Pending"
	StatusConfirmed         = "Confirmed"
	StatusMasterAssigned    = "Master Assigned"
	StatusMeasurementsTaken = "Measurements Taken"
	StatusInStitching       = "In Stitching"
	StatusTrialReady        = "Trial Ready"
	StatusDelivered         = "Delivered"
	StatusCancelled         = "Cancelled"
)

var OrderStatuses = []string{
	StatusPending,
	StatusConfirmed,
	StatusMasterAssigned,
	StatusMeasurementsTaken,
	StatusInStitching,
	StatusTrialReady,
	StatusDelivered,
	StatusCancelled,
}

// OrderItem snapshots a booked item. Nothing here is recomputed from live
// catalog or cart state after the order is created.
type OrderItem struct {
	ProductID     string  `bson:"productId" json:"productId"`
	Name          string  `bson:"name" json:"name"`
	Image         string  `bson:"image,omitempty" json:"image,omitempty"`
	Quantity      int     `bson:"quantity" json:"quantity"`
	WithFabric    bool    `bson:"withFabric" json:"withFabric"`
	Price         float64 `bson:"price" json:"price"`
	Customization string  `bson:"customization,omitempty" json:"customization,omitempty"`
}

// AppointmentAddress is the visit address for a home appointment.
type AppointmentAddress struct {
	Street string `bson:"street,omitempty" json:"street,omitempty"`
	City   string `bson:"city,omitempty" json:"city,omitempty"`
	State  string `bson:"state,omitempty" json:"state,omitempty"`
	Zip    string `bson:"zip,omitempty" json:"zip,omitempty"`
}

// Appointment captures the home-visit booking details.
type Appointment struct {
	Date         time.Time          `bson:"date" json:"date"`
	TimeSlot     string             `bson:"timeSlot" json:"timeSlot"`
	Address      AppointmentAddress `bson:"address" json:"address"`
	ContactName  string             `bson:"contactName,omitempty" json:"contactName,omitempty"`
	ContactPhone string             `bson:"contactPhone,omitempty" json:"contactPhone,omitempty"`
}

// Order is a point-in-time booking receipt with a mutable status field.
// The profileId tag is an opaque string; it may hold the reserved "me"
// identifier, a generated profile id, or a profile display name.
type Order struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	ProfileID   string             `bson:"profileId" json:"profileId"`
	Items       []OrderItem        `bson:"items" json:"items"`
	TotalAmount float64            `bson:"totalAmount" json:"totalAmount"`
	Status      string             `bson:"status" json:"status"`
	Appointment Appointment        `bson:"appointment" json:"appointment"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
