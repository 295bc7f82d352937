package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/campuspark/campuspark/internal/database"
	"github.com/campuspark/campuspark/internal/model"
	"github.com/campuspark/campuspark/internal/service"
)

// AuthHandler handles account registration, login and password reset
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{
		service: service,
	}
}

// RegisterRequest is the registration request body
type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	UserType        string `json:"user_type"`
	StaffID         string `json:"staff_id"`
	StudentID       string `json:"student_id"`
}

// RegisterResponse is the registration success payload
type RegisterResponse struct {
	Success    bool    `json:"success"`
	Message    string  `json:"message"`
	UserID     string  `json:"user_id"`
	UserType   string  `json:"user_type"`
	StaffID    *string `json:"staff_id"`
	StudentID  *string `json:"student_id"`
	Department string  `json:"department"`
	Email      string  `json:"email"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)

	if err := model.ValidateEmail(req.Email); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid email format")
		return
	}
	if err := model.ValidatePassword(req.Password); err != nil {
		writeError(w, http.StatusBadRequest, "Password must be 6 digits numeric")
		return
	}
	if req.Password != req.ConfirmPassword {
		writeError(w, http.StatusBadRequest, "Passwords don't match")
		return
	}

	memberID := strings.TrimSpace(req.StaffID)
	if memberID == "" {
		memberID = strings.TrimSpace(req.StudentID)
	}

	user, err := h.service.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		UserType: req.UserType,
		MemberID: memberID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidUserType):
			writeError(w, http.StatusBadRequest, "Invalid user type")
		case errors.Is(err, service.ErrIDRequired):
			if req.UserType == model.UserTypeStaff {
				writeError(w, http.StatusBadRequest, "Staff ID required")
			} else {
				writeError(w, http.StatusBadRequest, "Student ID required")
			}
		case errors.Is(err, service.ErrEmailTaken):
			writeError(w, http.StatusBadRequest, "Email already registered")
		case errors.Is(err, service.ErrIdentityNotFound):
			writeError(w, http.StatusBadRequest, fmt.Sprintf("ID '%s' not found in database", memberID))
		case errors.Is(err, service.ErrAlreadyRegistered):
			writeError(w, http.StatusBadRequest, fmt.Sprintf("ID '%s' is already registered", memberID))
		default:
			writeError(w, http.StatusServiceUnavailable, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, RegisterResponse{
		Success:    true,
		Message:    "Registration successful!",
		UserID:     user.ID.Hex(),
		UserType:   user.UserType,
		StaffID:    user.StaffID,
		StudentID:  user.StudentID,
		Department: user.Department,
		Email:      user.Email,
	})
}

// LoginRequest is the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginUser is the profile embedded in the login response
type LoginUser struct {
	Email      string  `json:"email"`
	UserType   string  `json:"user_type"`
	StaffID    *string `json:"staff_id"`
	StudentID  *string `json:"student_id"`
	Department string  `json:"department"`
	Username   string  `json:"username"`
}

// LoginResponse is the login success payload
type LoginResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Token   string    `json:"token"`
	User    LoginUser `json:"user"`
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, user, err := h.service.Login(r.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid email/password")
			return
		}
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
		User: LoginUser{
			Email:      user.Email,
			UserType:   user.UserType,
			StaffID:    user.StaffID,
			StudentID:  user.StudentID,
			Department: user.Department,
			Username:   user.Username(),
		},
	})
}

// ForgotPassword handles POST /auth/forgot-password
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if err := model.ValidateEmail(req.Email); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid email")
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "Email not found")
			return
		}
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"message":     "Instructions sent to your email!",
		"email":       req.Email,
		"instruction": "Check your email and choose a 6-digit number as your new password",
	})
}

// ResetPassword handles POST /auth/reset-password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		NewPassword string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if err := model.ValidateEmail(req.Email); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid email")
		return
	}
	if err := model.ValidatePassword(req.NewPassword); err != nil {
		writeError(w, http.StatusBadRequest, "New password must be 6 digits")
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Email, req.NewPassword); err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Password reset successful! You can now login with your new password.",
		"email":   req.Email,
	})
}
