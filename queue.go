package timerqueue

import (
	"fmt"
	"sync"

	"github.com/joeycumines/logiface"
	"golang.org/x/exp/slices"
)

// waiter is one pending timed-wake request.
type waiter struct {
	at    Ticks
	waker *Waker
}

// WakeQueue multiplexes pending timed-wake requests onto a single Alarm,
// which is lazily bound on first use and always armed to the earliest
// pending deadline. Entries are kept sorted by deadline, FIFO among equal
// deadlines, with at most one entry per Waker identity.
//
// Instances must be created with NewWakeQueue.
type WakeQueue struct {
	// Prevent copying
	_ [0]func()

	clock      Clock
	service    AlarmService
	dispatcher Dispatcher
	logger     *logiface.Logger[logiface.Event]
	capacity   int

	mu      sync.Mutex
	entries []waiter
	alarm   Alarm
	armedAt Ticks // mirrors the alarm's armed deadline; TickNone when unarmed
	evicted uint64
	closed  bool
}

// NewWakeQueue creates a WakeQueue. The shared alarm is not created until
// the first ScheduleWake call.
func NewWakeQueue(opts ...QueueOption) (*WakeQueue, error) {
	cfg, err := resolveQueueOptions(opts)
	if err != nil {
		return nil, err
	}
	return &WakeQueue{
		clock:      cfg.clock,
		service:    cfg.service,
		dispatcher: cfg.dispatcher,
		logger:     cfg.logger,
		capacity:   cfg.capacity,
		entries:    make([]waiter, 0, cfg.capacity),
		armedAt:    TickNone,
	}, nil
}

// ScheduleWake registers w to be woken once the deadline at has passed.
// It is idempotent per waker identity: rescheduling an already-pending waker
// updates its deadline in place, leaving a single entry.
//
// When the queue is full, the entry with the earliest pending deadline is
// removed and woken immediately, repeatedly until room exists; the request
// itself is never rejected. A deadline at or before the current time is
// honored before ScheduleWake returns, without waiting for an alarm fire.
//
// On the first call the shared alarm is bound; if that fails an error
// matching ErrAlarmUnavailable is returned and a later call may retry.
func (q *WakeQueue) ScheduleWake(at Ticks, w *Waker) error {
	if w == nil {
		panic(`timerqueue: schedule wake: nil waker`)
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	if err := q.bindLocked(); err != nil {
		q.mu.Unlock()
		return err
	}

	var woken []*Waker
	if i := q.indexOfLocked(w); i >= 0 {
		if q.entries[i].at != at {
			// update in place: correct the position, keep a single entry
			q.entries = slices.Delete(q.entries, i, i+1)
			q.insertLocked(waiter{at: at, waker: w})
		}
	} else {
		for len(q.entries) >= q.capacity {
			// full: sacrifice whichever pending entry is soonest due
			head := q.entries[0]
			q.entries = slices.Delete(q.entries, 0, 1)
			woken = append(woken, head.waker)
			q.evicted++
			q.logger.Warning().
				Uint64("deadline", uint64(head.at)).
				Int("capacity", q.capacity).
				Log("wake queue full, evicting earliest entry")
		}
		q.insertLocked(waiter{at: at, waker: w})
	}

	// Don't wait for the alarm to fire: directly dispatch anything already
	// due, then update the alarm if necessary.
	woken = append(woken, q.sweepLocked()...)
	q.mu.Unlock()

	for _, w := range woken {
		w.Wake()
	}
	return nil
}

// Dispatch removes and wakes every entry whose deadline has passed, then
// re-arms the alarm to the earliest remaining deadline (or disarms it when
// the queue is empty). Calling Dispatch when nothing is due is harmless.
func (q *WakeQueue) Dispatch() {
	q.mu.Lock()
	if q.closed || q.alarm == nil {
		q.mu.Unlock()
		return
	}
	woken := q.sweepLocked()
	q.mu.Unlock()

	for _, w := range woken {
		w.Wake()
	}
}

// handleAlarm is the alarm fire handler, routed via the Dispatcher. The
// armed deadline is marked expired before sweeping; a stale fire simply
// finds nothing newly due.
func (q *WakeQueue) handleAlarm() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.armedAt = TickNone
	woken := q.sweepLocked()
	q.mu.Unlock()

	for _, w := range woken {
		w.Wake()
	}
}

// bindLocked lazily creates the shared alarm.
func (q *WakeQueue) bindLocked() error {
	if q.alarm != nil {
		return nil
	}
	alarm, err := q.service.NewAlarm(func() {
		_ = q.dispatcher.Dispatch(q.handleAlarm)
	})
	if err != nil {
		q.logger.Err().
			Err(err).
			Log("wake queue failed to bind alarm")
		return fmt.Errorf("%w: %v", ErrAlarmUnavailable, err)
	}
	q.alarm = alarm
	q.logger.Debug().
		Log("wake queue alarm bound")
	return nil
}

// sweepLocked pops and collects every due entry, re-arms the alarm, and
// returns the wakers to invoke (in deadline order) once the lock is
// released. Wakers are not invoked under the lock so that notify functions
// may call back into the queue.
func (q *WakeQueue) sweepLocked() (woken []*Waker) {
	now := q.clock.Now()
	for len(q.entries) > 0 && q.entries[0].at <= now {
		woken = append(woken, q.entries[0].waker)
		q.entries = slices.Delete(q.entries, 0, 1)
	}
	q.rearmLocked(now)
	return woken
}

// rearmLocked restores the invariant that the armed deadline equals the
// minimum pending deadline, or TickNone when the queue is empty.
func (q *WakeQueue) rearmLocked(now Ticks) {
	want := TickNone
	if len(q.entries) > 0 {
		want = q.entries[0].at
	}
	if want == q.armedAt {
		return
	}
	q.armedAt = want
	if want == TickNone {
		q.alarm.Disarm()
		return
	}
	var d Ticks
	if want > now {
		d = want - now
	}
	if err := q.alarm.ArmOnce(d); err != nil {
		q.logger.Err().
			Err(err).
			Uint64("deadline", uint64(want)).
			Log("wake queue failed to arm alarm")
	}
}

// insertLocked inserts e after any existing entries with an equal deadline,
// so waiters scheduled earlier dispatch first.
func (q *WakeQueue) insertLocked(e waiter) {
	i, _ := slices.BinarySearchFunc(q.entries, e.at, func(w waiter, at Ticks) int {
		if w.at <= at {
			return -1
		}
		return 1
	})
	q.entries = slices.Insert(q.entries, i, e)
}

// indexOfLocked returns the index of the entry for w, or -1.
func (q *WakeQueue) indexOfLocked(w *Waker) int {
	for i := range q.entries {
		if q.entries[i].waker == w {
			return i
		}
	}
	return -1
}

// Now returns the current tick count of the queue's clock.
func (q *WakeQueue) Now() Ticks {
	return q.clock.Now()
}

// Len returns the number of pending entries.
func (q *WakeQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Capacity returns the maximum number of pending entries.
func (q *WakeQueue) Capacity() int {
	return q.capacity
}

// ArmedAt returns the deadline the shared alarm is currently armed for, or
// TickNone when it is unarmed (or not yet bound).
func (q *WakeQueue) ArmedAt() Ticks {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.armedAt
}

// EvictedWakes returns the number of entries force-woken by the overflow
// policy since creation.
func (q *WakeQueue) EvictedWakes() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.evicted
}

// Close discards all pending entries (without waking them) and releases the
// bound alarm, blocking until any in-flight fire has drained.
func (q *WakeQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	q.closed = true
	alarm := q.alarm
	q.alarm = nil
	q.entries = nil
	q.armedAt = TickNone
	q.mu.Unlock()

	if alarm != nil {
		// must not hold q.mu here: an in-flight fire takes it
		if err := alarm.Close(); err != nil {
			return err
		}
	}
	q.logger.Info().
		Log("wake queue closed")
	return nil
}
