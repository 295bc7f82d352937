package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/campuspark/campuspark/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SlotRepository owns the parking_slots collection. All lease mutations go
// through conditional updates so concurrent callers can never double-assign or
// double-release a slot.
type SlotRepository struct {
	collection *mongo.Collection
}

// NewSlotRepository creates a new slot repository
func NewSlotRepository(db *MongoDB) *SlotRepository {
	return &SlotRepository{
		collection: db.GetCollection(CollectionSlots),
	}
}

// EnsurePool seeds the fixed slot pool (S1..Sn) once, when the collection is
// empty. Pool size is static configuration; an existing pool is left alone.
func (r *SlotRepository) EnsurePool(ctx context.Context, size int) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	count, err := r.collection.CountDocuments(ctxTimeout, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to count slots: %w", err)
	}
	if count > 0 {
		return nil
	}

	docs := make([]interface{}, 0, size)
	for i := 1; i <= size; i++ {
		docs = append(docs, bson.M{
			"slot_id":           fmt.Sprintf("S%d", i),
			"available":         true,
			"reserved_by":       nil,
			"hardware_occupied": false,
		})
	}

	if _, err := r.collection.InsertMany(ctxTimeout, docs); err != nil {
		return fmt.Errorf("failed to seed slot pool: %w", err)
	}

	slog.Info("Initialized parking slot pool", "size", size)
	return nil
}

// List returns all slots ordered by slot_id.
func (r *SlotRepository) List(ctx context.Context) ([]model.Slot, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "slot_id", Value: 1}})
	cursor, err := r.collection.Find(ctxTimeout, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	defer cursor.Close(ctxTimeout)

	var slots []model.Slot
	if err := cursor.All(ctxTimeout, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode slots: %w", err)
	}

	return slots, nil
}

// Claim atomically assigns one free slot to the given staff member. The
// filter and update run as a single FindOneAndUpdate, so under concurrent
// requests each available slot is claimed by exactly one caller. Returns
// ErrNoSlotAvailable when every slot is taken at claim time.
func (r *SlotRepository) Claim(ctx context.Context, staffID, staffEmail, department string, now time.Time) (*model.Slot, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"available":   true,
		"reserved_by": nil,
	}

	update := bson.M{
		"$set": bson.M{
			"available":        false,
			"reserved_by":      staffID,
			"staff_email":      staffEmail,
			"department":       department,
			"reservation_time": now,
			"last_updated":     now,
		},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var slot model.Slot
	err := r.collection.FindOneAndUpdate(ctxTimeout, filter, update, opts).Decode(&slot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoSlotAvailable
		}
		return nil, fmt.Errorf("failed to claim slot: %w", err)
	}

	return &slot, nil
}

// ReleaseExpired clears an expired lease back to available. The filter pins
// the reservation_time the caller observed, so the release is idempotent and
// safe under concurrent reads: if another reader already released the slot
// (or someone re-claimed it), the update matches nothing and reports false.
func (r *SlotRepository) ReleaseExpired(ctx context.Context, slotID string, observedStart time.Time) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"slot_id":          slotID,
		"reservation_time": observedStart,
	}

	update := bson.M{
		"$set": bson.M{
			"available":        true,
			"reserved_by":      nil,
			"staff_email":      nil,
			"department":       nil,
			"reservation_time": nil,
		},
	}

	result, err := r.collection.UpdateOne(ctxTimeout, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to release slot %s: %w", slotID, err)
	}

	return result.ModifiedCount > 0, nil
}

// UpdateSensor overwrites the hardware occupancy reported by the slot's
// sensor. Lease fields are untouched; physical occupancy and logical
// reservation are independent. Returns ErrSlotNotFound for unknown slots.
func (r *SlotRepository) UpdateSensor(ctx context.Context, slotID string, occupied bool, at time.Time) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"hardware_occupied":  occupied,
			"last_sensor_update": at,
		},
	}

	result, err := r.collection.UpdateOne(ctxTimeout, bson.M{"slot_id": slotID}, update)
	if err != nil {
		return fmt.Errorf("failed to update sensor state for %s: %w", slotID, err)
	}

	if result.MatchedCount == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// CacheRequester backfills the requester metadata onto a reserved slot so
// later status reads skip the user lookup.
func (r *SlotRepository) CacheRequester(ctx context.Context, slotID, staffEmail, department string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"staff_email": staffEmail,
			"department":  department,
		},
	}

	_, err := r.collection.UpdateOne(ctxTimeout, bson.M{"slot_id": slotID, "available": false}, update)
	if err != nil {
		return fmt.Errorf("failed to cache requester metadata for %s: %w", slotID, err)
	}

	return nil
}
