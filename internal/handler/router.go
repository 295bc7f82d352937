package handler

import (
	"net/http"

	"github.com/campuspark/campuspark/pkg/middleware"
)

// Router handles HTTP routing
type Router struct {
	authHandler        *AuthHandler
	reservationHandler *ReservationHandler
	statusHandler      *StatusHandler
	hardwareHandler    *HardwareHandler
	bookingHandler     *BookingHandler
	adminHandler       *AdminHandler
	healthHandler      *HealthHandler
	corsConfig         middleware.CORSConfig
}

// NewRouter creates a new router
func NewRouter(
	authHandler *AuthHandler,
	reservationHandler *ReservationHandler,
	statusHandler *StatusHandler,
	hardwareHandler *HardwareHandler,
	bookingHandler *BookingHandler,
	adminHandler *AdminHandler,
	healthHandler *HealthHandler,
	corsConfig middleware.CORSConfig,
) *Router {
	return &Router{
		authHandler:        authHandler,
		reservationHandler: reservationHandler,
		statusHandler:      statusHandler,
		hardwareHandler:    hardwareHandler,
		bookingHandler:     bookingHandler,
		adminHandler:       adminHandler,
		healthHandler:      healthHandler,
		corsConfig:         corsConfig,
	}
}

// Handler returns the configured HTTP handler with middleware
func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health endpoints (no middleware)
	if rt.healthHandler != nil {
		mux.HandleFunc("/health", rt.healthHandler.Health)
		mux.HandleFunc("/ready", rt.healthHandler.Ready)
	}

	// Identity endpoints
	mux.HandleFunc("/auth/register", post(rt.authHandler.Register))
	mux.HandleFunc("/auth/login", post(rt.authHandler.Login))
	mux.HandleFunc("/auth/forgot-password", post(rt.authHandler.ForgotPassword))
	mux.HandleFunc("/auth/reset-password", post(rt.authHandler.ResetPassword))

	// Reservation endpoints
	mux.HandleFunc("/auth/reserve-slot", post(rt.reservationHandler.Reserve))
	mux.HandleFunc("/auth/slots_status", get(rt.statusHandler.SlotsStatus))
	mux.HandleFunc("/auth/my-bookings/", get(rt.bookingHandler.MyBookings))

	// Hardware (ESP32) endpoints
	mux.HandleFunc("/hardware/sensor-update", post(rt.hardwareHandler.SensorUpdate))
	mux.HandleFunc("/hardware/reserve-signal", get(rt.hardwareHandler.ReserveSignal))

	// Admin/debug endpoints
	mux.HandleFunc("/auth/staff-list", get(rt.adminHandler.StaffList))
	mux.HandleFunc("/auth/student-list", get(rt.adminHandler.StudentList))
	mux.HandleFunc("/auth/all-users", get(rt.adminHandler.AllUsers))
	mux.HandleFunc("/auth/check-staff/", get(rt.adminHandler.CheckStaff))
	mux.HandleFunc("/auth/check-student/", get(rt.adminHandler.CheckStudent))

	// Apply middleware (CORS first to handle preflight requests)
	handler := middleware.CORS(rt.corsConfig)(mux)
	handler = middleware.Recovery(handler)
	handler = middleware.Logging(handler)
	handler = middleware.CorrelationID(handler)

	return handler
}

// post guards a handler to POST requests
func post(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h(w, r)
	}
}

// get guards a handler to GET requests
func get(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h(w, r)
	}
}
