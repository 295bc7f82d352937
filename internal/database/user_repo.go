package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campuspark/campuspark/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository owns the users collection (the identity collaborator the
// reservation core depends on).
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *MongoDB) *UserRepository {
	return &UserRepository{
		collection: db.GetCollection(CollectionUsers),
	}
}

// Create inserts a new user account
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}

	_, err := r.collection.InsertOne(ctxTimeout, user)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// FindByEmail retrieves an active account by email. Returns ErrUserNotFound
// when no active account matches.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user model.User
	err := r.collection.FindOne(ctxTimeout, bson.M{"email": email, "is_active": true}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	return &user, nil
}

// FindActiveStaff resolves a staff_id to an active staff account. This is the
// identity check gating slot reservation.
func (r *UserRepository) FindActiveStaff(ctx context.Context, staffID string) (*model.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"staff_id":  staffID,
		"user_type": model.UserTypeStaff,
		"is_active": true,
	}

	var user model.User
	err := r.collection.FindOne(ctxTimeout, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find staff account: %w", err)
	}

	return &user, nil
}

// UpdatePassword replaces the password hash of an active account. Returns
// ErrUserNotFound when no active account matched the email.
func (r *UserRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"password": passwordHash}}

	result, err := r.collection.UpdateOne(ctxTimeout, bson.M{"email": email, "is_active": true}, update)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}

	return nil
}

// ListActive returns active accounts newest first, optionally filtered by
// user type (empty userType means all).
func (r *UserRepository) ListActive(ctx context.Context, userType string) ([]model.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"is_active": true}
	if userType != "" {
		filter["user_type"] = userType
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctxTimeout, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctxTimeout)

	var users []model.User
	if err := cursor.All(ctxTimeout, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	return users, nil
}
