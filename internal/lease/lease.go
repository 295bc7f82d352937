// Package lease computes lease expiry on demand. Every read path calls
// Evaluate against its own clock instead of relying on a background timer, so
// an expired lease is detected the first time anyone looks at it.
package lease

import (
	"fmt"
	"time"
)

// Status is the result of evaluating a lease at a point in time.
type Status struct {
	Active    bool
	Remaining time.Duration
}

// Evaluate reports whether a lease started at startedAt is still active at
// now, and how much of the TTL remains. The boundary instant counts as
// expired: a lease is active only while elapsed time is strictly below ttl.
func Evaluate(startedAt, now time.Time, ttl time.Duration) Status {
	elapsed := now.Sub(startedAt)
	if elapsed >= ttl {
		return Status{Active: false, Remaining: 0}
	}
	return Status{Active: true, Remaining: ttl - elapsed}
}

// Minutes returns the whole minutes left.
func (s Status) Minutes() int {
	return int(s.Remaining/time.Second) / 60
}

// Seconds returns the seconds left within the current minute.
func (s Status) Seconds() int {
	return int(s.Remaining/time.Second) % 60
}

// Countdown renders the remaining time as zero-padded MM:SS for display.
func (s Status) Countdown() string {
	return fmt.Sprintf("%02d:%02d", s.Minutes(), s.Seconds())
}
