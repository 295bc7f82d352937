package service

import (
	"context"
	"testing"
	"time"

	"github.com/campuspark/campuspark/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusFixture struct {
	slots  *fakeSlotStore
	users  *fakeUserStore
	status *StatusService
	clock  time.Time
}

func newStatusFixture(t *testing.T, poolSize int) *statusFixture {
	t.Helper()

	f := &statusFixture{
		slots: newFakeSlotStore(poolSize),
		users: &fakeUserStore{},
		clock: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	f.users.addStaff("cse101", "prof@campus.edu", "CSE")
	f.status = NewStatusService(f.slots, f.users, testTTL, 1000)
	f.status.now = func() time.Time { return f.clock }
	return f
}

func (f *statusFixture) claim(t *testing.T, staffID string) *model.Slot {
	t.Helper()
	slot, err := f.slots.Claim(context.Background(), staffID, staffID+"@campus.edu", "CSE", f.clock)
	require.NoError(t, err)
	return slot
}

func TestStatusAllAvailable(t *testing.T) {
	f := newStatusFixture(t, 5)

	feed, err := f.status.Status(context.Background())
	require.NoError(t, err)

	assert.True(t, feed.Success)
	assert.Equal(t, 5, feed.TotalSlots)
	assert.Equal(t, 5, feed.TotalAvailable)
	assert.Equal(t, 0, feed.TotalReserved)
	assert.Equal(t, 1000, feed.RefreshIntervalMs)
	for _, view := range feed.Slots {
		assert.Equal(t, model.SlotStatusAvailable, view.Status)
		assert.True(t, view.Available)
		assert.Empty(t, view.Countdown)
	}
}

// Pool of 5, allocate S1, poll at +9m and at +10m. Mirrors the behavior the
// deployed clients rely on: a one-minute countdown, then the slot frees
// itself on the next read.
func TestStatusReservationLifecycle(t *testing.T) {
	f := newStatusFixture(t, 5)
	reservedAt := f.clock
	f.claim(t, "cse101")

	// Nine minutes in: reserved with a 01:00 countdown.
	f.clock = reservedAt.Add(9 * time.Minute)
	feed, err := f.status.Status(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, feed.TotalReserved)
	assert.Equal(t, 4, feed.TotalAvailable)

	s1 := feed.Slots[0]
	assert.Equal(t, "S1", s1.SlotID)
	assert.Equal(t, model.SlotStatusReserved, s1.Status)
	assert.Equal(t, "cse101", s1.ReservedBy)
	assert.Equal(t, "01:00", s1.Countdown)
	require.NotNil(t, s1.TimeLeftMin)
	require.NotNil(t, s1.TimeLeftSec)
	assert.Equal(t, 1, *s1.TimeLeftMin)
	assert.Equal(t, 0, *s1.TimeLeftSec)
	assert.Equal(t, reservedAt.Add(testTTL).Format(time.RFC3339), s1.ExpiresAt)

	// At exactly +10m the lease is expired and the read releases it.
	f.clock = reservedAt.Add(10 * time.Minute)
	feed, err = f.status.Status(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, feed.TotalReserved)
	assert.Equal(t, 5, feed.TotalAvailable)
	assert.Equal(t, model.SlotStatusAvailable, feed.Slots[0].Status)

	// The slot is claimable again.
	slot := f.claim(t, "cse101")
	assert.Equal(t, "S1", slot.SlotID)
}

func TestStatusAutoReleaseIsIdempotent(t *testing.T) {
	f := newStatusFixture(t, 2)
	f.claim(t, "cse101")
	f.clock = f.clock.Add(testTTL + time.Minute)

	feed, err := f.status.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, feed.TotalAvailable)
	assert.Equal(t, 1, f.slots.releases)

	// A second poll reports the same state without another mutation.
	feed, err = f.status.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, feed.TotalAvailable)
	assert.Equal(t, 1, f.slots.releases)
}

func TestSignalHardwareIndependentOfLease(t *testing.T) {
	f := newStatusFixture(t, 2)

	// Sensor reports occupancy on a slot with no lease.
	require.NoError(t, f.status.ReportSensor(context.Background(), "S2", true))

	feed, err := f.status.Signal(context.Background())
	require.NoError(t, err)

	s2 := feed.Slots[1]
	assert.Equal(t, model.SlotStatusAvailable, s2.Status)
	assert.True(t, s2.Available)
	assert.True(t, s2.HardwareOccupied)
	assert.Equal(t, model.LEDOff, s2.LEDColor)
	assert.False(t, s2.Buzzer)

	stored := f.slots.get("S2")
	require.NotNil(t, stored.LastSensorUpdate)
	assert.Nil(t, stored.ReservedBy)
}

func TestSignalReservedSlot(t *testing.T) {
	f := newStatusFixture(t, 2)
	f.claim(t, "cse101")
	f.clock = f.clock.Add(5 * time.Minute)

	feed, err := f.status.Signal(context.Background())
	require.NoError(t, err)

	s1 := feed.Slots[0]
	assert.Equal(t, model.SlotStatusReserved, s1.Status)
	assert.Equal(t, model.LEDGreen, s1.LEDColor)
	assert.False(t, s1.Buzzer)
	assert.Equal(t, "05:00", s1.Countdown)

	s2 := feed.Slots[1]
	assert.Equal(t, model.LEDOff, s2.LEDColor)
}

func TestSignalAutoReleasesExpiredLease(t *testing.T) {
	f := newStatusFixture(t, 1)
	f.claim(t, "cse101")
	f.clock = f.clock.Add(testTTL)

	feed, err := f.status.Signal(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.SlotStatusAvailable, feed.Slots[0].Status)
	assert.Equal(t, model.LEDOff, feed.Slots[0].LEDColor)
	assert.Equal(t, 1, f.slots.releases)
}

func TestStatusBackfillsRequesterMetadata(t *testing.T) {
	f := newStatusFixture(t, 1)

	// Simulate an older writer that claimed the slot without caching the
	// requester metadata.
	staffID := "cse101"
	start := f.clock
	s := f.slots.slots["S1"]
	s.Available = false
	s.ReservedBy = &staffID
	s.ReservationTime = &start

	f.clock = start.Add(time.Minute)
	feed, err := f.status.Status(context.Background())
	require.NoError(t, err)

	s1 := feed.Slots[0]
	assert.Equal(t, "prof@campus.edu", s1.StaffEmail)
	assert.Equal(t, "CSE", s1.Department)

	// The lookup result was cached back onto the slot.
	stored := f.slots.get("S1")
	require.NotNil(t, stored.StaffEmail)
	assert.Equal(t, "prof@campus.edu", *stored.StaffEmail)
}

func TestReportSensorUnknownSlot(t *testing.T) {
	f := newStatusFixture(t, 1)
	err := f.status.ReportSensor(context.Background(), "S99", true)
	assert.Error(t, err)
}
