package timerqueue

import "errors"

// Standard errors.
var (
	// ErrAlarmUnavailable is returned when the underlying alarm resource
	// cannot be created, e.g. the WakeQueue's lazy bind on first use.
	ErrAlarmUnavailable = errors.New("timerqueue: hardware alarm unavailable")

	// ErrPoolExhausted is returned by AlarmPool.Allocate when all slots have
	// been issued.
	ErrPoolExhausted = errors.New("timerqueue: alarm pool exhausted")

	// ErrAlarmClosed is returned when operations are attempted on an alarm
	// that has been closed.
	ErrAlarmClosed = errors.New("timerqueue: alarm has been closed")

	// ErrQueueClosed is returned when operations are attempted on a closed
	// WakeQueue.
	ErrQueueClosed = errors.New("timerqueue: wake queue has been closed")

	// ErrPoolClosed is returned when operations are attempted on a closed
	// AlarmPool.
	ErrPoolClosed = errors.New("timerqueue: alarm pool has been closed")
)
