package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/campuspark/campuspark/internal/database"
	"github.com/campuspark/campuspark/internal/directory"
	"github.com/campuspark/campuspark/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Sentinel errors surfaced by the auth flows.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrIdentityNotFound   = errors.New("id not found in campus directory")
	ErrAlreadyRegistered  = errors.New("id already registered")
	ErrInvalidUserType    = errors.New("invalid user type")
	ErrIDRequired         = errors.New("staff or student id required")
)

// AuthService implements the identity collaborator: account registration
// against the campus eligibility directory, login, and password reset.
type AuthService struct {
	users      UserStore
	staffDir   *directory.Directory
	studentDir *directory.Directory
	bcryptCost int
	jwtSecret  string
	jwtTTL     time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, staffDir, studentDir *directory.Directory, bcryptCost int, jwtSecret string, jwtTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		staffDir:   staffDir,
		studentDir: studentDir,
		bcryptCost: bcryptCost,
		jwtSecret:  jwtSecret,
		jwtTTL:     jwtTTL,
	}
}

// RegisterInput carries a validated registration request. Email and password
// shape are checked by the handler before this is called.
type RegisterInput struct {
	Email    string
	Password string
	UserType string
	MemberID string // staff_id or student_id depending on UserType
}

// Register creates an account after verifying the id against the eligibility
// directory for its user type. The directory entry is marked registered so
// the same id cannot sign up twice.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	var dir *directory.Directory
	switch in.UserType {
	case model.UserTypeStaff:
		dir = s.staffDir
	case model.UserTypeStudent:
		dir = s.studentDir
	default:
		return nil, ErrInvalidUserType
	}

	if in.MemberID == "" {
		return nil, ErrIDRequired
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, database.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}

	lookup, err := dir.Find(in.MemberID)
	if err != nil {
		return nil, fmt.Errorf("directory lookup failed: %w", err)
	}
	if !lookup.Exists {
		return nil, ErrIdentityNotFound
	}
	if lookup.Registered {
		return nil, ErrAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        in.Email,
		PasswordHash: string(hash),
		UserType:     in.UserType,
		Department:   lookup.Department,
		CreatedAt:    time.Now().UTC(),
		IsActive:     true,
	}
	if in.UserType == model.UserTypeStaff {
		user.StaffID = &in.MemberID
	} else {
		user.StudentID = &in.MemberID
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := dir.MarkRegistered(in.MemberID); err != nil {
		// The account exists; a stale directory flag only risks a duplicate
		// signup attempt, which the email uniqueness check still rejects.
		slog.Error("Failed to mark directory entry registered",
			"member_id", in.MemberID,
			"user_type", in.UserType,
			"error", err,
		)
	}

	slog.Info("Account registered",
		"user_type", in.UserType,
		"member_id", in.MemberID,
		"department", lookup.Department,
	)

	return user, nil
}

// Login verifies credentials and issues a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":       user.ID.Hex(),
		"email":     user.Email,
		"user_type": user.UserType,
		"iat":       now.Unix(),
		"exp":       now.Add(s.jwtTTL).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return token, user, nil
}

// ForgotPassword checks the account exists and issues reset instructions.
// Delivery is out of scope; the instructions are logged for the operator.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		return err
	}

	slog.Info("Password reset requested; instruct the user to choose a new 6-digit password",
		"email", email,
	)

	return nil
}

// ResetPassword replaces the account password.
func (s *AuthService) ResetPassword(ctx context.Context, email, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.users.UpdatePassword(ctx, email, string(hash))
}

// CheckStaff probes the staff eligibility directory.
func (s *AuthService) CheckStaff(id string) (directory.Lookup, error) {
	return s.staffDir.Find(id)
}

// CheckStudent probes the student eligibility directory.
func (s *AuthService) CheckStudent(id string) (directory.Lookup, error) {
	return s.studentDir.Find(id)
}

// ListUsers returns active accounts, optionally filtered by user type.
func (s *AuthService) ListUsers(ctx context.Context, userType string) ([]model.User, error) {
	return s.users.ListActive(ctx, userType)
}
