// Package janitor runs an optional cron-scheduled sweep that clears leases
// long past their TTL. Read paths already release expired leases lazily, so
// the sweep is store hygiene for quiet periods, not a correctness mechanism.
package janitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/campuspark/campuspark/internal/lease"
	"github.com/campuspark/campuspark/internal/model"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// SlotStore is the slice of the slot store the janitor needs.
type SlotStore interface {
	List(ctx context.Context) ([]model.Slot, error)
	ReleaseExpired(ctx context.Context, slotID string, observedStart time.Time) (bool, error)
}

// Janitor sweeps expired leases on a cron schedule.
type Janitor struct {
	slots    SlotStore
	ttl      time.Duration
	schedule cron.Schedule
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New parses the cron spec and builds a janitor. Standard five-field cron
// syntax, minute resolution.
func New(slots SlotStore, ttl time.Duration, spec string) (*Janitor, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", spec, err)
	}

	return &Janitor{
		slots:    slots,
		ttl:      ttl,
		schedule: schedule,
		stopChan: make(chan struct{}),
	}, nil
}

// Start begins the sweep loop.
func (j *Janitor) Start(ctx context.Context) {
	slog.Info("Starting lease sweep janitor", "next_run", j.schedule.Next(time.Now()))

	j.wg.Add(1)
	go j.run(ctx)
}

// Stop halts the loop and waits for an in-flight sweep, bounded by ctx.
func (j *Janitor) Stop(ctx context.Context) {
	close(j.stopChan)

	done := make(chan struct{})
	go func() {
		j.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("Lease sweep janitor stopped")
	case <-ctx.Done():
		slog.Warn("Timed out waiting for lease sweep to finish")
	}
}

func (j *Janitor) run(ctx context.Context) {
	defer j.wg.Done()

	for {
		next := j.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-timer.C:
			j.sweep(ctx)
		case <-j.stopChan:
			timer.Stop()
			return
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

// sweep releases every lease whose TTL has elapsed. Releases are conditional
// on the observed reservation_time, so racing with a concurrent status read
// (or another janitor run) is harmless.
func (j *Janitor) sweep(ctx context.Context) {
	runID := uuid.New().String()

	slots, err := j.slots.List(ctx)
	if err != nil {
		slog.Error("Sweep failed to list slots", "run_id", runID, "error", err)
		return
	}

	now := time.Now().UTC()
	released := 0
	for i := range slots {
		slot := &slots[i]
		if !slot.Leased() {
			continue
		}
		if lease.Evaluate(*slot.ReservationTime, now, j.ttl).Active {
			continue
		}

		ok, err := j.slots.ReleaseExpired(ctx, slot.SlotID, *slot.ReservationTime)
		if err != nil {
			slog.Error("Sweep failed to release slot",
				"run_id", runID,
				"slot_id", slot.SlotID,
				"error", err,
			)
			continue
		}
		if ok {
			released++
		}
	}

	if released > 0 {
		slog.Info("Sweep released expired leases", "run_id", runID, "count", released)
	}
}
