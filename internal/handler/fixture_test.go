package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/campuspark/campuspark/internal/database"
	"github.com/campuspark/campuspark/internal/directory"
	"github.com/campuspark/campuspark/internal/model"
	"github.com/campuspark/campuspark/internal/service"
	"github.com/campuspark/campuspark/pkg/middleware"
	"github.com/stretchr/testify/require"
)

// memSlots is an in-memory service.SlotStore for exercising the full router.
type memSlots struct {
	mu    sync.Mutex
	order []string
	slots map[string]*model.Slot
}

func newMemSlots(size int) *memSlots {
	m := &memSlots{slots: make(map[string]*model.Slot)}
	for i := 1; i <= size; i++ {
		id := fmt.Sprintf("S%d", i)
		m.order = append(m.order, id)
		m.slots[id] = &model.Slot{SlotID: id, Available: true}
	}
	return m
}

func (m *memSlots) List(_ context.Context) ([]model.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Slot, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.slots[id])
	}
	return out, nil
}

func (m *memSlots) Claim(_ context.Context, staffID, staffEmail, department string, now time.Time) (*model.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.order {
		s := m.slots[id]
		if !s.Available || s.ReservedBy != nil {
			continue
		}
		s.Available = false
		s.ReservedBy = &staffID
		s.StaffEmail = &staffEmail
		s.Department = &department
		t := now
		s.ReservationTime = &t
		claimed := *s
		return &claimed, nil
	}
	return nil, database.ErrNoSlotAvailable
}

func (m *memSlots) ReleaseExpired(_ context.Context, slotID string, observedStart time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[slotID]
	if !ok || s.ReservationTime == nil || !s.ReservationTime.Equal(observedStart) {
		return false, nil
	}
	s.Available = true
	s.ReservedBy = nil
	s.StaffEmail = nil
	s.Department = nil
	s.ReservationTime = nil
	return true, nil
}

func (m *memSlots) UpdateSensor(_ context.Context, slotID string, occupied bool, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[slotID]
	if !ok {
		return database.ErrSlotNotFound
	}
	s.HardwareOccupied = occupied
	t := at
	s.LastSensorUpdate = &t
	return nil
}

func (m *memSlots) CacheRequester(_ context.Context, slotID, staffEmail, department string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.slots[slotID]; ok && !s.Available {
		s.StaffEmail = &staffEmail
		s.Department = &department
	}
	return nil
}

// memBookings is an in-memory service.BookingStore.
type memBookings struct {
	mu       sync.Mutex
	bookings []model.Booking
}

func (m *memBookings) Append(_ context.Context, booking *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings = append(m.bookings, *booking)
	return nil
}

func (m *memBookings) ListByStaff(_ context.Context, staffID string, limit int64) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Booking
	for i := len(m.bookings) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		if m.bookings[i].StaffID == staffID {
			out = append(out, m.bookings[i])
		}
	}
	return out, nil
}

// memUsers is an in-memory service.UserStore.
type memUsers struct {
	mu    sync.Mutex
	users []*model.User
}

func (m *memUsers) addStaff(staffID, email, department string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := staffID
	m.users = append(m.users, &model.User{
		Email:      email,
		UserType:   model.UserTypeStaff,
		StaffID:    &id,
		Department: department,
		CreatedAt:  time.Now().UTC(),
		IsActive:   true,
	})
}

func (m *memUsers) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := *user
	m.users = append(m.users, &u)
	return nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email && u.IsActive {
			copied := *u
			return &copied, nil
		}
	}
	return nil, database.ErrUserNotFound
}

func (m *memUsers) FindActiveStaff(_ context.Context, staffID string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.UserType == model.UserTypeStaff && u.IsActive && u.StaffID != nil && *u.StaffID == staffID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, database.ErrUserNotFound
}

func (m *memUsers) UpdatePassword(_ context.Context, email, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email && u.IsActive {
			u.PasswordHash = passwordHash
			return nil
		}
	}
	return database.ErrUserNotFound
}

func (m *memUsers) ListActive(_ context.Context, userType string) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.User
	for i := len(m.users) - 1; i >= 0; i-- {
		u := m.users[i]
		if !u.IsActive {
			continue
		}
		if userType != "" && u.UserType != userType {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

// testAPI wires the full router over in-memory stores and temp-dir
// eligibility files.
type testAPI struct {
	handler  http.Handler
	slots    *memSlots
	bookings *memBookings
	users    *memUsers
}

func newTestAPI(t *testing.T, poolSize int) *testAPI {
	t.Helper()

	dir := t.TempDir()
	staffDir, err := directory.Open(filepath.Join(dir, "staff.json"), directory.Data{
		"CSE": {"cse101": directory.Entry{}},
		"ECE": {"ece101": directory.Entry{}},
	})
	require.NoError(t, err)
	studentDir, err := directory.Open(filepath.Join(dir, "students.json"), directory.Data{
		"CSE": {"cse21001": directory.Entry{}},
	})
	require.NoError(t, err)

	api := &testAPI{
		slots:    newMemSlots(poolSize),
		bookings: &memBookings{},
		users:    &memUsers{},
	}

	const ttl = 10 * time.Minute
	reservationService := service.NewReservationService(api.slots, api.bookings, api.users, ttl)
	statusService := service.NewStatusService(api.slots, api.users, ttl, 1000)
	bookingService := service.NewBookingService(api.bookings)
	authService := service.NewAuthService(api.users, staffDir, studentDir, 4, "handler-test-secret", time.Hour)

	router := NewRouter(
		NewAuthHandler(authService),
		NewReservationHandler(reservationService),
		NewStatusHandler(statusService),
		NewHardwareHandler(statusService),
		NewBookingHandler(bookingService),
		NewAdminHandler(authService),
		nil, // health endpoints need a live database
		middleware.CORSConfig{AllowedOrigins: "*"},
	)
	api.handler = router.Handler()
	return api
}

// do performs a request against the router and decodes the JSON response
// into a generic map.
func (api *testAPI) do(t *testing.T, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), "body: %s", rec.Body.String())
	return rec.Code, decoded
}
