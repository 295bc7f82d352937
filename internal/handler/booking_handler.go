package handler

import (
	"net/http"
	"strings"

	"github.com/campuspark/campuspark/internal/model"
	"github.com/campuspark/campuspark/internal/service"
)

// BookingHandler serves reservation history
type BookingHandler struct {
	service *service.BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(service *service.BookingService) *BookingHandler {
	return &BookingHandler{
		service: service,
	}
}

// BookingsResponse is the booking history payload
type BookingsResponse struct {
	Success       bool            `json:"success"`
	StaffID       string          `json:"staff_id"`
	Bookings      []model.Booking `json:"bookings"`
	TotalBookings int             `json:"total_bookings"`
}

// MyBookings handles GET /auth/my-bookings/{staff_id}
func (h *BookingHandler) MyBookings(w http.ResponseWriter, r *http.Request) {
	staffID := strings.TrimPrefix(r.URL.Path, "/auth/my-bookings/")
	if staffID == "" {
		writeError(w, http.StatusBadRequest, "staff_id is required")
		return
	}

	bookings, err := h.service.History(r.Context(), staffID)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	if bookings == nil {
		bookings = []model.Booking{}
	}

	writeJSON(w, http.StatusOK, BookingsResponse{
		Success:       true,
		StaffID:       staffID,
		Bookings:      bookings,
		TotalBookings: len(bookings),
	})
}
