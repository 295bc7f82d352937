package database

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateIndexes creates all necessary indexes for the collections
func CreateIndexes(ctx context.Context, db *MongoDB) error {
	slog.Info("Creating MongoDB indexes")

	if err := createSlotIndexes(ctx, db); err != nil {
		return err
	}
	if err := createBookingIndexes(ctx, db); err != nil {
		return err
	}
	if err := createUserIndexes(ctx, db); err != nil {
		return err
	}

	slog.Info("Successfully created all MongoDB indexes")
	return nil
}

func createSlotIndexes(ctx context.Context, db *MongoDB) error {
	collection := db.GetCollection(CollectionSlots)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slot_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_slot_id_unique"),
		},
		{
			Keys: bson.D{
				{Key: "available", Value: 1},
				{Key: "reserved_by", Value: 1},
			},
			Options: options.Index().SetName("idx_available_reserved_by"),
		},
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := collection.Indexes().CreateMany(ctxTimeout, indexes)
	if err != nil {
		return err
	}

	slog.Info("Created parking_slots indexes")
	return nil
}

func createBookingIndexes(ctx context.Context, db *MongoDB) error {
	collection := db.GetCollection(CollectionBookings)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "staff_id", Value: 1},
				{Key: "reserved_at", Value: -1},
			},
			Options: options.Index().SetName("idx_staff_id_reserved_at"),
		},
		{
			Keys:    bson.D{{Key: "reserved_at", Value: -1}},
			Options: options.Index().SetName("idx_reserved_at"),
		},
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := collection.Indexes().CreateMany(ctxTimeout, indexes)
	if err != nil {
		return err
	}

	slog.Info("Created bookings indexes")
	return nil
}

func createUserIndexes(ctx context.Context, db *MongoDB) error {
	collection := db.GetCollection(CollectionUsers)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_email_unique"),
		},
		{
			Keys: bson.D{
				{Key: "staff_id", Value: 1},
				{Key: "user_type", Value: 1},
				{Key: "is_active", Value: 1},
			},
			Options: options.Index().SetName("idx_staff_id_type_active"),
		},
		{
			Keys: bson.D{
				{Key: "user_type", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_user_type_created_at"),
		},
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := collection.Indexes().CreateMany(ctxTimeout, indexes)
	if err != nil {
		return err
	}

	slog.Info("Created users indexes")
	return nil
}
