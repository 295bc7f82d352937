package service

import (
	"context"

	"github.com/campuspark/campuspark/internal/model"
)

// historyLimit caps the booking history page. There is no pagination cursor;
// the UI only shows the most recent reservations.
const historyLimit = 20

// BookingService serves the read-only reservation history.
type BookingService struct {
	bookings BookingStore
}

// NewBookingService creates a new booking service
func NewBookingService(bookings BookingStore) *BookingService {
	return &BookingService{
		bookings: bookings,
	}
}

// History returns the staff member's most recent bookings, newest first.
func (s *BookingService) History(ctx context.Context, staffID string) ([]model.Booking, error) {
	return s.bookings.ListByStaff(ctx, staffID, historyLimit)
}
