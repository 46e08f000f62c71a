package timerqueue

import "sync"

// DispatchMode selects how alarm fire callbacks reach the sweep logic. The
// strategy is chosen once at composition time; there are no runtime mode
// conditionals on the fire path.
type DispatchMode int32

const (
	// DispatchTask runs the sweep inline from the fire callback. Use when
	// fire callbacks execute in a context where direct execution is safe
	// (e.g. task context, or the hosted runtime).
	DispatchTask DispatchMode = iota

	// DispatchISR defers the sweep to a DeferredDispatcher, to be drained at
	// a safe resumption point, and signals that a yield is required.
	DispatchISR
)

// String returns the string representation of the dispatch mode.
func (m DispatchMode) String() string {
	switch m {
	case DispatchTask:
		return "task"
	case DispatchISR:
		return "isr"
	default:
		return "unknown"
	}
}

// Dispatcher routes an alarm fire callback to its sweep logic, either
// immediately or deferred, returning whether a yield should be requested
// before returning from the firing context.
type Dispatcher interface {
	Dispatch(fn func()) (yield bool)
}

// newDispatcher returns the strategy for mode.
func newDispatcher(mode DispatchMode) Dispatcher {
	if mode == DispatchISR {
		return NewDeferredDispatcher()
	}
	return directDispatcher{}
}

// directDispatcher runs callbacks inline and never requests a yield.
type directDispatcher struct{}

func (directDispatcher) Dispatch(fn func()) bool {
	fn()
	return false
}

// DeferredDispatcher queues fire callbacks for execution at a safe point.
// Dispatch enqueues and reports that a yield is required; Flush drains the
// queue head-first, preserving dispatch order.
type DeferredDispatcher struct {
	// Prevent copying
	_ [0]func()

	mu      sync.Mutex
	pending *fifo[func()]
}

// NewDeferredDispatcher returns an empty DeferredDispatcher.
func NewDeferredDispatcher() *DeferredDispatcher {
	return &DeferredDispatcher{pending: newFIFO[func()](8)}
}

// Dispatch enqueues fn and reports that a yield is required.
func (d *DeferredDispatcher) Dispatch(fn func()) bool {
	d.mu.Lock()
	d.pending.Push(fn)
	d.mu.Unlock()
	return true
}

// Flush runs all deferred callbacks in dispatch order, including any
// enqueued while flushing, and returns the number executed.
func (d *DeferredDispatcher) Flush() int {
	var n int
	for {
		d.mu.Lock()
		fn, ok := d.pending.Pop()
		d.mu.Unlock()
		if !ok {
			return n
		}
		fn()
		n++
	}
}

// Pending returns the number of deferred callbacks not yet flushed.
func (d *DeferredDispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending.Len()
}
