package timerqueue

import (
	"math"
	"time"
)

// Ticks is an absolute reading of a monotonic microsecond clock. Deadlines
// are expressed as absolute ticks, not caller-relative durations, so repeated
// rescheduling or delayed dispatch never drifts.
type Ticks uint64

// TickNone is the sentinel "never" deadline, used for e.g. the armed state of
// an empty WakeQueue.
const TickNone Ticks = math.MaxUint64

// maximum value convertible to a time.Duration without overflow
const maxDurationTicks = Ticks(math.MaxInt64 / int64(time.Microsecond))

// TicksFromDuration converts a duration to ticks, clamping negative values
// to zero.
func TicksFromDuration(d time.Duration) Ticks {
	if d <= 0 {
		return 0
	}
	return Ticks(d / time.Microsecond)
}

// Duration converts a relative tick count to a time.Duration, saturating at
// the maximum representable duration. Not meaningful for TickNone.
func (t Ticks) Duration() time.Duration {
	if t > maxDurationTicks {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(t) * time.Microsecond
}

// Clock is a monotonically non-decreasing microsecond tick source.
type Clock interface {
	// Now returns the current tick count.
	Now() Ticks
}

// monotonicClock derives ticks from the offset since a fixed anchor,
// guaranteeing monotonicity independent of wall-clock adjustments.
type monotonicClock struct {
	anchor time.Time
}

// NewClock returns a monotonic host clock anchored at the time of the call.
func NewClock() Clock {
	return &monotonicClock{anchor: time.Now()}
}

func (c *monotonicClock) Now() Ticks {
	return Ticks(time.Since(c.anchor) / time.Microsecond)
}
