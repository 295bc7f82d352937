package handler

import (
	"net/http"

	"github.com/campuspark/campuspark/internal/service"
)

// StatusHandler serves the human-facing slot status feed
type StatusHandler struct {
	service *service.StatusService
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(service *service.StatusService) *StatusHandler {
	return &StatusHandler{
		service: service,
	}
}

// SlotsStatus handles GET /auth/slots_status
func (h *StatusHandler) SlotsStatus(w http.ResponseWriter, r *http.Request) {
	feed, err := h.service.Status(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, feed)
}
