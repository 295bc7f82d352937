package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/campuspark/campuspark/internal/database"
	"github.com/campuspark/campuspark/internal/lease"
	"github.com/campuspark/campuspark/internal/model"
)

// StatusService projects the slot pool into the two polling feeds: the human
// status feed and the ESP32 hardware signal feed. Both share one per-slot
// algorithm; reading either feed lazily releases any lease it finds expired.
type StatusService struct {
	slots     SlotStore
	users     UserStore
	ttl       time.Duration
	refreshMs int
	now       func() time.Time
}

// NewStatusService creates a new status service
func NewStatusService(slots SlotStore, users UserStore, ttl time.Duration, refreshMs int) *StatusService {
	return &StatusService{
		slots:     slots,
		users:     users,
		ttl:       ttl,
		refreshMs: refreshMs,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SlotView is one slot entry in the human status feed.
type SlotView struct {
	SlotID           string     `json:"slot_id"`
	Available        bool       `json:"available"`
	Status           string     `json:"status"`
	ReservedBy       string     `json:"reserved_by,omitempty"`
	StaffEmail       string     `json:"staff_email,omitempty"`
	Department       string     `json:"department,omitempty"`
	HardwareOccupied bool       `json:"hardware_occupied"`
	LastSensorUpdate *time.Time `json:"last_sensor_update,omitempty"`
	TimeLeftMin      *int       `json:"time_left_min,omitempty"`
	TimeLeftSec      *int       `json:"time_left_sec,omitempty"`
	Countdown        string     `json:"countdown,omitempty"`
	ExpiresAt        string     `json:"expires_at,omitempty"`
}

// StatusFeed is the human status feed payload.
type StatusFeed struct {
	Success           bool       `json:"success"`
	Slots             []SlotView `json:"slots"`
	TotalSlots        int        `json:"total_slots"`
	TotalAvailable    int        `json:"total_available"`
	TotalReserved     int        `json:"total_reserved"`
	Timestamp         string     `json:"timestamp"`
	RefreshIntervalMs int        `json:"refresh_interval_ms"`
}

// SignalView is one slot entry in the hardware signal feed.
type SignalView struct {
	SlotID           string `json:"slot_id"`
	Available        bool   `json:"available"`
	HardwareOccupied bool   `json:"hardware_occupied"`
	Status           string `json:"status"`
	ReservedBy       string `json:"reserved_by,omitempty"`
	StaffEmail       string `json:"staff_email,omitempty"`
	Department       string `json:"department,omitempty"`
	TimeLeftMin      *int   `json:"time_left_min,omitempty"`
	TimeLeftSec      *int   `json:"time_left_sec,omitempty"`
	Countdown        string `json:"countdown,omitempty"`
	LEDColor         string `json:"led_color"`
	Buzzer           bool   `json:"buzzer"`
}

// SignalFeed is the hardware signal feed payload.
type SignalFeed struct {
	Success           bool         `json:"success"`
	Timestamp         string       `json:"timestamp"`
	TotalSlots        int          `json:"total_slots"`
	Slots             []SignalView `json:"slots"`
	RefreshIntervalMs int          `json:"refresh_interval_ms"`
}

// projection is the per-slot outcome shared by both feeds.
type projection struct {
	status     string
	st         lease.Status
	expiresAt  time.Time
	reservedBy string
	staffEmail string
	department string
}

// project evaluates one slot against now. An expired lease is auto-released
// as a side effect and the slot reported available for this response; the
// release is conditional on the observed reservation_time, so concurrent
// readers racing on the same expired slot perform at most one mutation.
func (s *StatusService) project(ctx context.Context, slot *model.Slot, now time.Time) projection {
	if !slot.Leased() {
		return projection{status: model.SlotStatusAvailable}
	}

	st := lease.Evaluate(*slot.ReservationTime, now, s.ttl)
	if !st.Active {
		released, err := s.slots.ReleaseExpired(ctx, slot.SlotID, *slot.ReservationTime)
		if err != nil {
			slog.Error("Failed to auto-release expired lease",
				"slot_id", slot.SlotID,
				"error", err,
			)
		} else if released {
			slog.Info("Auto-released expired lease",
				"slot_id", slot.SlotID,
				"reserved_by", *slot.ReservedBy,
			)
		}
		return projection{status: model.SlotStatusAvailable}
	}

	p := projection{
		status:     model.SlotStatusReserved,
		st:         st,
		expiresAt:  slot.ReservationTime.Add(s.ttl),
		reservedBy: *slot.ReservedBy,
	}
	if slot.StaffEmail != nil {
		p.staffEmail = *slot.StaffEmail
	}
	if slot.Department != nil {
		p.department = *slot.Department
	}

	// Lazily backfill requester metadata left behind by older writers, and
	// cache it onto the slot for subsequent reads.
	if p.staffEmail == "" {
		user, err := s.users.FindActiveStaff(ctx, p.reservedBy)
		if err != nil {
			if !errors.Is(err, database.ErrUserNotFound) {
				slog.Error("Requester metadata lookup failed",
					"staff_id", p.reservedBy,
					"error", err,
				)
			}
		} else {
			p.staffEmail = user.Email
			p.department = user.Department
			if err := s.slots.CacheRequester(ctx, slot.SlotID, user.Email, user.Department); err != nil {
				slog.Error("Failed to cache requester metadata",
					"slot_id", slot.SlotID,
					"error", err,
				)
			}
		}
	}

	return p
}

// Status builds the human status feed.
func (s *StatusService) Status(ctx context.Context) (*StatusFeed, error) {
	slots, err := s.slots.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	feed := &StatusFeed{
		Success:           true,
		Slots:             make([]SlotView, 0, len(slots)),
		TotalSlots:        len(slots),
		Timestamp:         now.Format(time.RFC3339),
		RefreshIntervalMs: s.refreshMs,
	}

	for i := range slots {
		slot := &slots[i]
		p := s.project(ctx, slot, now)

		view := SlotView{
			SlotID:           slot.SlotID,
			Status:           p.status,
			HardwareOccupied: slot.HardwareOccupied,
			LastSensorUpdate: slot.LastSensorUpdate,
		}

		if p.status == model.SlotStatusReserved {
			feed.TotalReserved++
			mins, secs := p.st.Minutes(), p.st.Seconds()
			view.ReservedBy = p.reservedBy
			view.StaffEmail = p.staffEmail
			view.Department = p.department
			view.TimeLeftMin = &mins
			view.TimeLeftSec = &secs
			view.Countdown = p.st.Countdown()
			view.ExpiresAt = p.expiresAt.Format(time.RFC3339)
		} else {
			feed.TotalAvailable++
			view.Available = true
		}

		feed.Slots = append(feed.Slots, view)
	}

	return feed, nil
}

// Signal builds the hardware signal feed polled by the ESP32 controllers.
// Buzzer is always false; the anti-theft alert path is not implemented.
func (s *StatusService) Signal(ctx context.Context) (*SignalFeed, error) {
	slots, err := s.slots.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	feed := &SignalFeed{
		Success:           true,
		Timestamp:         now.Format(time.RFC3339),
		TotalSlots:        len(slots),
		Slots:             make([]SignalView, 0, len(slots)),
		RefreshIntervalMs: s.refreshMs,
	}

	for i := range slots {
		slot := &slots[i]
		p := s.project(ctx, slot, now)

		view := SignalView{
			SlotID:           slot.SlotID,
			HardwareOccupied: slot.HardwareOccupied,
			Status:           p.status,
			LEDColor:         model.LEDOff,
		}

		if p.status == model.SlotStatusReserved {
			mins, secs := p.st.Minutes(), p.st.Seconds()
			view.ReservedBy = p.reservedBy
			view.StaffEmail = p.staffEmail
			view.Department = p.department
			view.TimeLeftMin = &mins
			view.TimeLeftSec = &secs
			view.Countdown = p.st.Countdown()
			view.LEDColor = model.LEDGreen
		} else {
			view.Available = true
		}

		feed.Slots = append(feed.Slots, view)
	}

	return feed, nil
}

// ReportSensor records a physical occupancy report from a slot's sensor.
// Lease state is never touched on this path.
func (s *StatusService) ReportSensor(ctx context.Context, slotID string, occupied bool) error {
	return s.slots.UpdateSensor(ctx, slotID, occupied, s.now().Truncate(time.Millisecond))
}
