package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/campuspark/campuspark/internal/database"
	"github.com/campuspark/campuspark/internal/service"
)

// HardwareHandler serves the ESP32 endpoints: sensor ingest and the
// reservation signal feed.
type HardwareHandler struct {
	service *service.StatusService
}

// NewHardwareHandler creates a new hardware handler
func NewHardwareHandler(service *service.StatusService) *HardwareHandler {
	return &HardwareHandler{
		service: service,
	}
}

// SensorUpdateRequest is the sensor report body
type SensorUpdateRequest struct {
	SlotID   string `json:"slot_id"`
	Occupied bool   `json:"occupied"`
}

// SensorUpdateResponse acknowledges a sensor report
type SensorUpdateResponse struct {
	Success  bool   `json:"success"`
	SlotID   string `json:"slot_id"`
	Occupied bool   `json:"occupied"`
	Updated  bool   `json:"updated"`
}

// SensorUpdate handles POST /hardware/sensor-update
func (h *HardwareHandler) SensorUpdate(w http.ResponseWriter, r *http.Request) {
	var req SensorUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.SlotID == "" {
		writeError(w, http.StatusBadRequest, "slot_id required")
		return
	}

	if err := h.service.ReportSensor(r.Context(), req.SlotID, req.Occupied); err != nil {
		if errors.Is(err, database.ErrSlotNotFound) {
			writeError(w, http.StatusNotFound, "slot not found")
			return
		}
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, SensorUpdateResponse{
		Success:  true,
		SlotID:   req.SlotID,
		Occupied: req.Occupied,
		Updated:  true,
	})
}

// ReserveSignal handles GET /hardware/reserve-signal
func (h *HardwareHandler) ReserveSignal(w http.ResponseWriter, r *http.Request) {
	feed, err := h.service.Signal(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, feed)
}
