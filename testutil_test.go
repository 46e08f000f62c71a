package timerqueue

import (
	"sync"
	"sync/atomic"
)

// manualClock is a Clock advanced explicitly by tests.
type manualClock struct {
	now atomic.Uint64
}

func newManualClock(start Ticks) *manualClock {
	c := &manualClock{}
	c.now.Store(uint64(start))
	return c
}

func (c *manualClock) Now() Ticks {
	return Ticks(c.now.Load())
}

func (c *manualClock) Set(t Ticks) {
	c.now.Store(uint64(t))
}

func (c *manualClock) Advance(d Ticks) {
	c.now.Add(uint64(d))
}

// fakeAlarm records arm/disarm activity and lets tests simulate hardware
// expiry via Fire.
type fakeAlarm struct {
	mu          sync.Mutex
	fire        func()
	lastArm     Ticks
	armCount    int
	disarmCount int
	armed       bool
	periodic    bool
	closed      bool
}

func (a *fakeAlarm) ArmOnce(d Ticks) error {
	return a.arm(d, false)
}

func (a *fakeAlarm) ArmPeriodic(d Ticks) error {
	return a.arm(d, true)
}

func (a *fakeAlarm) arm(d Ticks, periodic bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrAlarmClosed
	}
	a.lastArm = d
	a.armCount++
	a.armed = true
	a.periodic = periodic
	return nil
}

func (a *fakeAlarm) Disarm() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	prev := a.armed
	a.armed = false
	a.disarmCount++
	return prev
}

func (a *fakeAlarm) IsActive() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.armed
}

func (a *fakeAlarm) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrAlarmClosed
	}
	a.closed = true
	a.armed = false
	return nil
}

// Fire simulates the hardware expiry of a pending arming.
func (a *fakeAlarm) Fire() {
	a.mu.Lock()
	if a.closed || !a.armed {
		a.mu.Unlock()
		return
	}
	if !a.periodic {
		a.armed = false
	}
	fire := a.fire
	a.mu.Unlock()
	fire()
}

// ForceFire invokes the callback regardless of armed state, simulating a
// stale fire racing with a disarm.
func (a *fakeAlarm) ForceFire() {
	a.mu.Lock()
	fire := a.fire
	closed := a.closed
	a.mu.Unlock()
	if !closed {
		fire()
	}
}

func (a *fakeAlarm) snapshot() (lastArm Ticks, armCount, disarmCount int, armed bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastArm, a.armCount, a.disarmCount, a.armed
}

func (a *fakeAlarm) isClosed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closed
}

// fakeAlarmService hands out fakeAlarms, optionally failing creation.
type fakeAlarmService struct {
	mu     sync.Mutex
	alarms []*fakeAlarm
	newErr error
}

func (s *fakeAlarmService) NewAlarm(fire func()) (Alarm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.newErr != nil {
		return nil, s.newErr
	}
	a := &fakeAlarm{fire: fire}
	s.alarms = append(s.alarms, a)
	return a, nil
}

func (s *fakeAlarmService) setNewErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newErr = err
}

func (s *fakeAlarmService) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.alarms)
}

func (s *fakeAlarmService) last() *fakeAlarm {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.alarms) == 0 {
		return nil
	}
	return s.alarms[len(s.alarms)-1]
}

// wakeRecorder names wakers and records the order they were woken in.
type wakeRecorder struct {
	mu    sync.Mutex
	order []string
}

func (r *wakeRecorder) waker(name string) *Waker {
	return NewWaker(func() {
		r.mu.Lock()
		r.order = append(r.order, name)
		r.mu.Unlock()
	})
}

func (r *wakeRecorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.order...)
}
