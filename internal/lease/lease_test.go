package lease

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const ttl = 10 * time.Minute

func TestEvaluateActiveWindow(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		at        time.Time
		active    bool
		remaining time.Duration
	}{
		{"at start", start, true, 10 * time.Minute},
		{"one second in", start.Add(time.Second), true, 10*time.Minute - time.Second},
		{"nine minutes in", start.Add(9 * time.Minute), true, time.Minute},
		{"one second before expiry", start.Add(ttl - time.Second), true, time.Second},
		{"exactly at expiry", start.Add(ttl), false, 0},
		{"after expiry", start.Add(ttl + time.Hour), false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := Evaluate(start, tt.at, ttl)
			assert.Equal(t, tt.active, st.Active)
			assert.Equal(t, tt.remaining, st.Remaining)
		})
	}
}

func TestCountdownRendering(t *testing.T) {
	tests := []struct {
		remaining time.Duration
		want      string
		min, sec  int
	}{
		{125 * time.Second, "02:05", 2, 5},
		{0, "00:00", 0, 0},
		{time.Minute, "01:00", 1, 0},
		{59 * time.Second, "00:59", 0, 59},
		{10 * time.Minute, "10:00", 10, 0},
	}

	for _, tt := range tests {
		st := Status{Active: tt.remaining > 0, Remaining: tt.remaining}
		assert.Equal(t, tt.want, st.Countdown())
		assert.Equal(t, tt.min, st.Minutes())
		assert.Equal(t, tt.sec, st.Seconds())
	}
}

func TestZeroRemainingImpliesInactive(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	st := Evaluate(start, start.Add(ttl), ttl)
	assert.False(t, st.Active)
	assert.Equal(t, "00:00", st.Countdown())
}

func TestEvaluateIgnoresSubSecondForDisplay(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	st := Evaluate(start, start.Add(8*time.Minute+59*time.Second+500*time.Millisecond), ttl)
	assert.True(t, st.Active)
	assert.Equal(t, "01:00", st.Countdown())
}
