package model

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User types
const (
	UserTypeStaff   = "staff"
	UserTypeStudent = "student"
)

// User is a registered account. Only staff accounts may hold parking leases;
// students register for campus app access but cannot reserve.
type User struct {
	ID           primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"password"`
	UserType     string             `json:"user_type" bson:"user_type"`
	StaffID      *string            `json:"staff_id" bson:"staff_id"`
	StudentID    *string            `json:"student_id" bson:"student_id"`
	Department   string             `json:"department" bson:"department"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	IsActive     bool               `json:"is_active" bson:"is_active"`
}

// Username derives the display name from the email local part.
func (u *User) Username() string {
	if i := strings.IndexByte(u.Email, '@'); i > 0 {
		return u.Email[:i]
	}
	return u.Email
}

// ValidateEmail checks the account email shape accepted by the legacy clients:
// 7-99 characters, exactly one @, and a dot in the domain part.
func ValidateEmail(email string) error {
	if len(email) < 7 || len(email) > 99 {
		return errors.New("email must be between 7 and 99 characters")
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 || !strings.Contains(parts[1], ".") {
		return errors.New("invalid email format")
	}
	return nil
}

// ValidatePassword enforces the campus PIN policy: exactly 6 digits.
func ValidatePassword(password string) error {
	if len(password) != 6 {
		return errors.New("password must be 6 digits")
	}
	for _, c := range password {
		if c < '0' || c > '9' {
			return errors.New("password must be numeric")
		}
	}
	return nil
}
