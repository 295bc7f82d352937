package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking is an immutable ledger entry recording one successful reservation.
// ExpiresAt is fixed at creation time (reserved_at + lease TTL) and never
// re-derived afterwards.
type Booking struct {
	ID         primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	StaffID    string             `json:"staff_id" bson:"staff_id"`
	StaffEmail string             `json:"staff_email" bson:"staff_email"`
	Department string             `json:"department,omitempty" bson:"department,omitempty"`
	SlotID     string             `json:"slot_id" bson:"slot_id"`
	ReservedAt time.Time          `json:"reserved_at" bson:"reserved_at"`
	ExpiresAt  time.Time          `json:"expires_at" bson:"expires_at"`
}
