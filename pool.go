package timerqueue

import (
	"fmt"
	"sync"

	"github.com/joeycumines/logiface"
)

// SlotID identifies an allocated alarm slot. IDs are 0-based, contiguous,
// stable once issued, and never reused.
type SlotID uint8

// AlarmCallback is the (function, opaque context) pair invoked when a slot's
// alarm fires, matching the shape a generic multi-alarm time-driver
// interface expects.
type AlarmCallback func(ctx any)

// slot pairs a stable id with one bound Alarm and its registered callback.
// Slots never leave the pool.
type slot struct {
	id SlotID

	mu    sync.Mutex
	alarm Alarm
	fn    AlarmCallback
	ctx   any
}

// fire invokes the registered callback, if any. Firing with no callback set
// is a silent no-op. The callback is copied out of the critical section
// before invocation.
func (s *slot) fire() {
	s.mu.Lock()
	fn, ctx := s.fn, s.ctx
	s.mu.Unlock()
	if fn != nil {
		fn(ctx)
	}
}

// AlarmPool is a fixed-capacity array of independent alarm slots, allocated
// lazily and never freed. Each slot owns its own Alarm; no cross-slot
// locking exists beyond the allocation counter.
//
// Instances must be created with NewAlarmPool.
type AlarmPool struct {
	// Prevent copying
	_ [0]func()

	clock      Clock
	service    AlarmService
	dispatcher Dispatcher
	logger     *logiface.Logger[logiface.Event]
	capacity   int

	mu     sync.Mutex
	slots  []*slot
	closed bool
}

// NewAlarmPool creates an AlarmPool. Slots are created on demand by
// Allocate.
func NewAlarmPool(opts ...PoolOption) (*AlarmPool, error) {
	cfg, err := resolvePoolOptions(opts)
	if err != nil {
		return nil, err
	}
	return &AlarmPool{
		clock:      cfg.clock,
		service:    cfg.service,
		dispatcher: cfg.dispatcher,
		logger:     cfg.logger,
		capacity:   cfg.capacity,
		slots:      make([]*slot, 0, cfg.capacity),
	}, nil
}

// Allocate creates the next slot, binds a fresh Alarm to it, and returns its
// id. At capacity it returns ErrPoolExhausted with no side effects.
func (p *AlarmPool) Allocate() (SlotID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, ErrPoolClosed
	}
	if len(p.slots) >= p.capacity {
		return 0, ErrPoolExhausted
	}

	s := &slot{id: SlotID(len(p.slots))}
	alarm, err := p.service.NewAlarm(func() {
		_ = p.dispatcher.Dispatch(s.fire)
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrAlarmUnavailable, err)
	}
	s.alarm = alarm
	p.slots = append(p.slots, s)
	p.logger.Debug().
		Int("slot", int(s.id)).
		Log("alarm slot allocated")
	return s.id, nil
}

// SetCallback overwrites the callback invoked when slot id's alarm fires.
// It must be set before Arm is meaningful. Panics on an unissued id.
func (p *AlarmPool) SetCallback(id SlotID, fn AlarmCallback, ctx any) {
	s := p.slot(id)
	s.mu.Lock()
	s.fn, s.ctx = fn, ctx
	s.mu.Unlock()
}

// Arm (re-)arms slot id's one-shot alarm for the absolute deadline, if it is
// strictly in the future, and reports success. A deadline at or before the
// current time arms nothing and reports failure: the caller must treat the
// request as already due and deliver through its own logic. Panics on an
// unissued id.
func (p *AlarmPool) Arm(id SlotID, deadline Ticks) bool {
	s := p.slot(id)
	s.mu.Lock()
	defer s.mu.Unlock()

	now := p.clock.Now()
	if deadline <= now {
		return false
	}
	if err := s.alarm.ArmOnce(deadline - now); err != nil {
		p.logger.Err().
			Err(err).
			Int("slot", int(id)).
			Uint64("deadline", uint64(deadline)).
			Log("alarm slot failed to arm")
		return false
	}
	return true
}

// Now returns the current tick count of the pool's clock.
func (p *AlarmPool) Now() Ticks {
	return p.clock.Now()
}

// Len returns the number of slots allocated so far.
func (p *AlarmPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.slots)
}

// Capacity returns the maximum number of slots.
func (p *AlarmPool) Capacity() int {
	return p.capacity
}

// slot returns the slot for an issued id.
func (p *AlarmPool) slot(id SlotID) *slot {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		panic(`timerqueue: pool: pool is closed`)
	}
	if int(id) >= len(p.slots) {
		panic(`timerqueue: pool: slot id out of range`)
	}
	return p.slots[id]
}

// Close releases every slot's alarm, blocking until in-flight fires drain.
// The first alarm close error is returned; remaining slots are still closed.
func (p *AlarmPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	p.closed = true
	slots := p.slots
	p.mu.Unlock()

	var firstErr error
	for _, s := range slots {
		// alarm close takes no slot lock; fires route through s.fire
		if err := s.alarm.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	p.logger.Info().
		Int("slots", len(slots)).
		Log("alarm pool closed")
	return firstErr
}
