package service

import (
	"context"
	"time"

	"github.com/campuspark/campuspark/internal/model"
)

// Store interfaces consumed by the services. The mongo-backed repositories in
// internal/database satisfy them in production; tests substitute in-memory
// fakes.

// SlotStore is the slot pool persistence.
type SlotStore interface {
	List(ctx context.Context) ([]model.Slot, error)
	Claim(ctx context.Context, staffID, staffEmail, department string, now time.Time) (*model.Slot, error)
	ReleaseExpired(ctx context.Context, slotID string, observedStart time.Time) (bool, error)
	UpdateSensor(ctx context.Context, slotID string, occupied bool, at time.Time) error
	CacheRequester(ctx context.Context, slotID, staffEmail, department string) error
}

// BookingStore is the append-only reservation ledger.
type BookingStore interface {
	Append(ctx context.Context, booking *model.Booking) error
	ListByStaff(ctx context.Context, staffID string, limit int64) ([]model.Booking, error)
}

// UserStore is the account persistence behind the identity checks.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindActiveStaff(ctx context.Context, staffID string) (*model.User, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	ListActive(ctx context.Context, userType string) ([]model.User, error)
}
