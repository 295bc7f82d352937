package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Slot statuses as reported to clients
const (
	SlotStatusAvailable = "AVAILABLE"
	SlotStatusReserved  = "RESERVED"
)

// LED colors for the hardware signal feed
const (
	LEDGreen = "GREEN"
	LEDOff   = "OFF"
)

// Slot represents one physical parking space. A slot is either available or
// holds a single time-bounded lease recorded by ReservedBy/ReservationTime.
// Hardware occupancy is reported independently by the ESP32 sensors and never
// affects lease state.
type Slot struct {
	ID               primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	SlotID           string             `json:"slot_id" bson:"slot_id"`
	Available        bool               `json:"available" bson:"available"`
	ReservedBy       *string            `json:"reserved_by,omitempty" bson:"reserved_by"`
	StaffEmail       *string            `json:"staff_email,omitempty" bson:"staff_email,omitempty"`
	Department       *string            `json:"department,omitempty" bson:"department,omitempty"`
	ReservationTime  *time.Time         `json:"reservation_time,omitempty" bson:"reservation_time,omitempty"`
	LastUpdated      *time.Time         `json:"-" bson:"last_updated,omitempty"`
	HardwareOccupied bool               `json:"hardware_occupied" bson:"hardware_occupied"`
	LastSensorUpdate *time.Time         `json:"last_sensor_update,omitempty" bson:"last_sensor_update,omitempty"`
}

// Leased reports whether the slot carries lease data. Expiry is not considered
// here; callers evaluate the lease against a clock.
func (s *Slot) Leased() bool {
	return s.ReservedBy != nil && s.ReservationTime != nil
}
