package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/campuspark/campuspark/internal/database"
	"github.com/campuspark/campuspark/internal/model"
)

// ErrNotStaff is returned when a reservation is attempted by an identity that
// does not resolve to an active staff account.
var ErrNotStaff = errors.New("staff access only")

// ReservationService allocates slot leases. A reservation is an atomic claim
// of one free slot followed by a ledger append; the claim is the source of
// truth and is never rolled back if the append fails.
type ReservationService struct {
	slots    SlotStore
	bookings BookingStore
	users    UserStore
	ttl      time.Duration
	now      func() time.Time
}

// NewReservationService creates a new reservation service
func NewReservationService(slots SlotStore, bookings BookingStore, users UserStore, ttl time.Duration) *ReservationService {
	return &ReservationService{
		slots:    slots,
		bookings: bookings,
		users:    users,
		ttl:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Reservation is the result of a successful allocation.
type Reservation struct {
	Slot    *model.Slot
	Booking *model.Booking
}

// Reserve assigns a free slot to the staff member for one lease TTL. Returns
// ErrNotStaff when the id is not an active staff account and
// database.ErrNoSlotAvailable when the pool is fully leased; the caller is
// expected to re-poll rather than retry internally.
func (s *ReservationService) Reserve(ctx context.Context, staffID string) (*Reservation, error) {
	user, err := s.users.FindActiveStaff(ctx, staffID)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return nil, ErrNotStaff
		}
		return nil, fmt.Errorf("failed to verify staff identity: %w", err)
	}

	// Mongo stores timestamps at millisecond precision; truncate up front so
	// the value we hand out equals the value later reads observe.
	now := s.now().Truncate(time.Millisecond)

	slot, err := s.slots.Claim(ctx, staffID, user.Email, user.Department, now)
	if err != nil {
		return nil, err
	}

	booking := &model.Booking{
		StaffID:    staffID,
		StaffEmail: user.Email,
		Department: user.Department,
		SlotID:     slot.SlotID,
		ReservedAt: now,
		ExpiresAt:  now.Add(s.ttl),
	}

	if err := s.bookings.Append(ctx, booking); err != nil {
		// The slot stays claimed; the lease will decay on its own. Losing the
		// ledger entry is the accepted inconsistency for a claim that cannot
		// be transactionally paired with the append.
		slog.Error("Booking ledger append failed after slot claim",
			"slot_id", slot.SlotID,
			"staff_id", staffID,
			"error", err,
		)
	}

	slog.Info("Slot reserved",
		"slot_id", slot.SlotID,
		"staff_id", staffID,
		"expires_at", booking.ExpiresAt,
	)

	return &Reservation{Slot: slot, Booking: booking}, nil
}

// TTL returns the fixed lease duration.
func (s *ReservationService) TTL() time.Duration {
	return s.ttl
}
