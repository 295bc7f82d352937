package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/campuspark/campuspark/internal/database"
	"github.com/campuspark/campuspark/internal/model"
)

// fakeSlotStore is an in-memory SlotStore with the same conditional-update
// semantics as the mongo repository.
type fakeSlotStore struct {
	mu       sync.Mutex
	order    []string
	slots    map[string]*model.Slot
	releases int // successful release mutations
	claimErr error
}

func newFakeSlotStore(size int) *fakeSlotStore {
	f := &fakeSlotStore{slots: make(map[string]*model.Slot)}
	for i := 1; i <= size; i++ {
		id := fmt.Sprintf("S%d", i)
		f.order = append(f.order, id)
		f.slots[id] = &model.Slot{SlotID: id, Available: true}
	}
	return f
}

func (f *fakeSlotStore) get(slotID string) model.Slot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.slots[slotID]
}

func (f *fakeSlotStore) List(_ context.Context) ([]model.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]model.Slot, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, *f.slots[id])
	}
	return out, nil
}

func (f *fakeSlotStore) Claim(_ context.Context, staffID, staffEmail, department string, now time.Time) (*model.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.claimErr != nil {
		return nil, f.claimErr
	}

	for _, id := range f.order {
		s := f.slots[id]
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

func (f *fakeSlotStore) ReleaseExpired(_ context.Context, slotID string, observedStart time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.slots[slotID]
	if !ok || s.ReservationTime == nil || !s.ReservationTime.Equal(observedStart) {
		return false, nil
	}

	s.Available = true
	s.ReservedBy = nil
	s.StaffEmail = nil
	s.Department = nil
	s.ReservationTime = nil
	f.releases++
	return true, nil
}

func (f *fakeSlotStore) UpdateSensor(_ context.Context, slotID string, occupied bool, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.slots[slotID]
	if !ok {
		return database.ErrSlotNotFound
	}
	s.HardwareOccupied = occupied
	t := at
	s.LastSensorUpdate = &t
	return nil
}

func (f *fakeSlotStore) CacheRequester(_ context.Context, slotID, staffEmail, department string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.slots[slotID]
	if !ok || s.Available {
		return nil
	}
	s.StaffEmail = &staffEmail
	s.Department = &department
	return nil
}

// fakeBookingStore is an in-memory append-only ledger.
type fakeBookingStore struct {
	mu        sync.Mutex
	bookings  []model.Booking
	appendErr error
}

func (f *fakeBookingStore) Append(_ context.Context, booking *model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.appendErr != nil {
		return f.appendErr
	}
	f.bookings = append(f.bookings, *booking)
	return nil
}

func (f *fakeBookingStore) ListByStaff(_ context.Context, staffID string, limit int64) ([]model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []model.Booking
	for i := len(f.bookings) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		if f.bookings[i].StaffID == staffID {
			out = append(out, f.bookings[i])
		}
	}
	return out, nil
}

// fakeUserStore is an in-memory account store.
type fakeUserStore struct {
	mu    sync.Mutex
	users []*model.User
}

func (f *fakeUserStore) addStaff(staffID, email, department string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := staffID
	f.users = append(f.users, &model.User{
		Email:      email,
		UserType:   model.UserTypeStaff,
		StaffID:    &id,
		Department: department,
		CreatedAt:  time.Now().UTC(),
		IsActive:   true,
	})
}

func (f *fakeUserStore) Create(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := *user
	f.users = append(f.users, &u)
	return nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email && u.IsActive {
			copied := *u
			return &copied, nil
		}
	}
	return nil, database.ErrUserNotFound
}

func (f *fakeUserStore) FindActiveStaff(_ context.Context, staffID string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.UserType == model.UserTypeStaff && u.IsActive && u.StaffID != nil && *u.StaffID == staffID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, database.ErrUserNotFound
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, email, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email && u.IsActive {
			u.PasswordHash = passwordHash
			return nil
		}
	}
	return database.ErrUserNotFound
}

func (f *fakeUserStore) ListActive(_ context.Context, userType string) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []model.User
	for i := len(f.users) - 1; i >= 0; i-- {
		u := f.users[i]
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
