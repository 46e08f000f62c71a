package timerqueue

import (
	"sync"
	"time"
)

// Alarm is a single countdown resource with one fixed fire callback, bound at
// creation. Arming replaces any pending arming; the callback fires at most
// once per one-shot arming.
//
// Implementations adapt whatever countdown primitive the platform provides.
// See NewHostAlarmService for a hosted implementation.
type Alarm interface {
	// ArmOnce (re-)arms the alarm to fire once after d relative ticks,
	// replacing any pending arming.
	ArmOnce(d Ticks) error

	// ArmPeriodic (re-)arms the alarm to fire every d relative ticks,
	// replacing any pending arming.
	ArmPeriodic(d Ticks) error

	// Disarm cancels any pending arming, reporting whether the alarm was
	// previously armed.
	Disarm() bool

	// IsActive reports whether the alarm is currently armed.
	IsActive() bool

	// Close disarms the alarm and releases it, blocking until any in-flight
	// fire callback has drained. The fire callback is never invoked after
	// Close returns. Closing an already-closed alarm returns ErrAlarmClosed.
	Close() error
}

// AlarmService creates alarms. The fire callback may be invoked from an
// arbitrary context depending on the platform; route it through a Dispatcher
// when direct execution is unsafe.
type AlarmService interface {
	NewAlarm(fire func()) (Alarm, error)
}

// HostAlarmService implements AlarmService on top of the runtime timer. Fire
// callbacks execute on their own goroutine, which corresponds to
// DispatchTask semantics.
type HostAlarmService struct{}

// NewHostAlarmService returns an AlarmService backed by the runtime timer.
func NewHostAlarmService() *HostAlarmService {
	return &HostAlarmService{}
}

// NewAlarm creates an alarm that invokes fire on expiry.
func (s *HostAlarmService) NewAlarm(fire func()) (Alarm, error) {
	if fire == nil {
		panic(`timerqueue: alarm: nil fire callback`)
	}
	a := &hostAlarm{fire: fire}
	a.quiesced = sync.NewCond(&a.mu)
	return a, nil
}

// hostAlarm adapts time.AfterFunc to the Alarm contract. A generation
// counter ties each scheduled expiry to the arming that requested it, so a
// fire racing with Disarm/re-arm is suppressed rather than misattributed.
type hostAlarm struct {
	mu       sync.Mutex
	quiesced *sync.Cond
	fire     func()
	timer    *time.Timer
	gen      uint64
	period   Ticks // nonzero when armed periodic
	inflight int
	active   bool
	closed   bool
}

func (a *hostAlarm) ArmOnce(d Ticks) error {
	return a.arm(d, false)
}

func (a *hostAlarm) ArmPeriodic(d Ticks) error {
	return a.arm(d, true)
}

func (a *hostAlarm) arm(d Ticks, periodic bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrAlarmClosed
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.gen++
	gen := a.gen
	if periodic {
		a.period = d
	} else {
		a.period = 0
	}
	a.active = true
	a.timer = time.AfterFunc(d.Duration(), func() { a.onFire(gen) })
	return nil
}

func (a *hostAlarm) Disarm() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	prev := a.active
	if a.timer != nil {
		a.timer.Stop()
	}
	a.gen++
	a.period = 0
	a.active = false
	return prev
}

func (a *hostAlarm) IsActive() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}

// Close disarms first, then waits for any in-flight fire, and only then
// releases the callback. The reverse order would allow a fire to observe a
// released callback.
func (a *hostAlarm) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrAlarmClosed
	}
	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
	}
	a.gen++
	a.active = false
	for a.inflight > 0 {
		a.quiesced.Wait()
	}
	a.fire = nil
	a.mu.Unlock()
	return nil
}

func (a *hostAlarm) onFire(gen uint64) {
	a.mu.Lock()
	if a.closed || gen != a.gen {
		// stale expiry from a superseded arming
		a.mu.Unlock()
		return
	}
	if a.period != 0 {
		a.timer.Reset(a.period.Duration())
	} else {
		a.active = false
	}
	fire := a.fire
	a.inflight++
	a.mu.Unlock()

	fire()

	a.mu.Lock()
	a.inflight--
	if a.inflight == 0 {
		a.quiesced.Broadcast()
	}
	a.mu.Unlock()
}
