package database

import (
	"context"
	"fmt"
	"time"

	"github.com/campuspark/campuspark/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BookingRepository owns the append-only bookings ledger. Records are created
// once per successful reservation and never mutated or deleted.
type BookingRepository struct {
	collection *mongo.Collection
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *MongoDB) *BookingRepository {
	return &BookingRepository{
		collection: db.GetCollection(CollectionBookings),
	}
}

// Append inserts a new booking record
func (r *BookingRepository) Append(ctx context.Context, booking *model.Booking) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}

	_, err := r.collection.InsertOne(ctxTimeout, booking)
	if err != nil {
		return fmt.Errorf("failed to append booking: %w", err)
	}

	return nil
}

// ListByStaff returns the most recent bookings for a staff member, newest
// first, capped to limit.
func (r *BookingRepository) ListByStaff(ctx context.Context, staffID string, limit int64) ([]model.Booking, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "reserved_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctxTimeout, bson.M{"staff_id": staffID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctxTimeout)

	var bookings []model.Booking
	if err := cursor.All(ctxTimeout, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}
