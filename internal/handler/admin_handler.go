package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/campuspark/campuspark/internal/directory"
	"github.com/campuspark/campuspark/internal/model"
	"github.com/campuspark/campuspark/internal/service"
)

// AdminHandler serves the debug listing endpoints used by the operations
// dashboard: registered users and eligibility directory probes.
type AdminHandler struct {
	service *service.AuthService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(service *service.AuthService) *AdminHandler {
	return &AdminHandler{
		service: service,
	}
}

// StaffList handles GET /auth/staff-list
func (h *AdminHandler) StaffList(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context(), model.UserTypeStaff)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"total_staff": len(users),
		"staff":       users,
	})
}

// StudentList handles GET /auth/student-list
func (h *AdminHandler) StudentList(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context(), model.UserTypeStudent)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"total_students": len(users),
		"students":       users,
	})
}

// AllUsers handles GET /auth/all-users
func (h *AdminHandler) AllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context(), "")
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	staffCount := 0
	studentCount := 0
	for i := range users {
		switch users[i].UserType {
		case model.UserTypeStaff:
			staffCount++
		case model.UserTypeStudent:
			studentCount++
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"total_users":    len(users),
		"total_staff":    staffCount,
		"total_students": studentCount,
		"users":          users,
	})
}

// CheckStaff handles GET /auth/check-staff/{staff_id}
func (h *AdminHandler) CheckStaff(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/auth/check-staff/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "staff_id is required")
		return
	}

	lookup, err := h.service.CheckStaff(id)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	writeDirectoryProbe(w, "staff_id", id, lookup)
}

// CheckStudent handles GET /auth/check-student/{student_id}
func (h *AdminHandler) CheckStudent(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/auth/check-student/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "student_id is required")
		return
	}

	lookup, err := h.service.CheckStudent(id)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	writeDirectoryProbe(w, "student_id", id, lookup)
}

func writeDirectoryProbe(w http.ResponseWriter, idField, id string, lookup directory.Lookup) {
	if !lookup.Exists {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"success": false,
			"exists":  false,
			"message": fmt.Sprintf("ID '%s' not found in database", id),
		})
		return
	}

	message := "Available for registration"
	if lookup.Registered {
		message = "Already registered"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"exists":     true,
		idField:      id,
		"department": lookup.Department,
		"registered": lookup.Registered,
		"message":    message,
	})
}
