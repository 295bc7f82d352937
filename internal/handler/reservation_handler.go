package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/campuspark/campuspark/internal/database"
	"github.com/campuspark/campuspark/internal/service"
)

// ReservationHandler handles slot reservation requests
type ReservationHandler struct {
	service *service.ReservationService
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(service *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{
		service: service,
	}
}

// ReserveRequest is the reservation request body
type ReserveRequest struct {
	StaffID string `json:"staff_id"`
}

// ReserveResponse is the reservation success payload. Field names are fixed
// by the deployed mobile and kiosk clients.
type ReserveResponse struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	SlotID          string `json:"slot_id"`
	StaffID         string `json:"staff_id"`
	StaffEmail      string `json:"staff_email"`
	Department      string `json:"department,omitempty"`
	ReservedAt      string `json:"reserved_at"`
	ExpiresAt       string `json:"expires_at"`
	DurationMinutes int    `json:"duration_minutes"`
	AutoRefresh     bool   `json:"auto_refresh"`
}

// Reserve handles POST /auth/reserve-slot
func (h *ReservationHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	var req ReserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.StaffID == "" {
		writeError(w, http.StatusBadRequest, "staff_id is required")
		return
	}

	res, err := h.service.Reserve(r.Context(), req.StaffID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotStaff):
			writeError(w, http.StatusForbidden, "Staff access only")
		case errors.Is(err, database.ErrNoSlotAvailable):
			writeError(w, http.StatusNotFound, "No slots available")
		default:
			writeError(w, http.StatusServiceUnavailable, err.Error())
		}
		return
	}

	booking := res.Booking
	writeJSON(w, http.StatusCreated, ReserveResponse{
		Success:         true,
		Message:         "Slot reserved!",
		SlotID:          booking.SlotID,
		StaffID:         booking.StaffID,
		StaffEmail:      booking.StaffEmail,
		Department:      booking.Department,
		ReservedAt:      booking.ReservedAt.Format(time.RFC3339),
		ExpiresAt:       booking.ExpiresAt.Format(time.RFC3339),
		DurationMinutes: int(h.service.TTL().Minutes()),
		AutoRefresh:     true,
	})
}
