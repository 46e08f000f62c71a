package timerqueue

import (
	"math"
	"testing"
	"time"
)

func TestTicksFromDuration(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want Ticks
	}{
		{"zero", 0, 0},
		{"negative", -time.Second, 0},
		{"microsecond", time.Microsecond, 1},
		{"sub-microsecond truncates", 999 * time.Nanosecond, 0},
		{"second", time.Second, 1_000_000},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := TicksFromDuration(tc.d); got != tc.want {
				t.Errorf("TicksFromDuration(%v) = %v, want %v", tc.d, got, tc.want)
			}
		})
	}
}

func TestTicks_Duration(t *testing.T) {
	if got := Ticks(1500).Duration(); got != 1500*time.Microsecond {
		t.Errorf("Duration() = %v, want %v", got, 1500*time.Microsecond)
	}
	if got := Ticks(0).Duration(); got != 0 {
		t.Errorf("Duration() = %v, want 0", got)
	}
	// saturates instead of overflowing
	if got := TickNone.Duration(); got != time.Duration(math.MaxInt64) {
		t.Errorf("Duration() = %v, want max duration", got)
	}
}

func TestNewClock_Monotonic(t *testing.T) {
	c := NewClock()
	prev := c.Now()
	for i := 0; i < 100; i++ {
		now := c.Now()
		if now < prev {
			t.Fatalf("clock went backwards: %v -> %v", prev, now)
		}
		prev = now
	}
}

func TestNewClock_Advances(t *testing.T) {
	c := NewClock()
	start := c.Now()
	time.Sleep(2 * time.Millisecond)
	if elapsed := c.Now() - start; elapsed < 1000 {
		t.Fatalf("expected at least 1000 ticks to elapse, got %d", elapsed)
	}
}
