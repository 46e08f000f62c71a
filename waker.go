package timerqueue

import "sync/atomic"

// Waker is an opaque resumable capability: waking it marks the associated
// suspended computation runnable, it does not run anything itself. Wakers are
// compared by identity (pointer equality); a WakeQueue holds at most one
// entry per distinct Waker.
//
// The notify function is invoked once per Wake call, outside any internal
// lock, and must not block. It may call back into the queue that woke it
// (e.g. to reschedule).
type Waker struct {
	// Prevent copying
	_ [0]func()

	notify func()
	woken  atomic.Uint64
}

// NewWaker returns a Waker that invokes notify when woken.
func NewWaker(notify func()) *Waker {
	if notify == nil {
		panic(`timerqueue: waker: nil notify func`)
	}
	return &Waker{notify: notify}
}

// NewChannelWaker returns a Waker that performs a non-blocking send on ch
// when woken. Use a buffered channel to avoid dropped notifications.
func NewChannelWaker(ch chan<- struct{}) *Waker {
	if ch == nil {
		panic(`timerqueue: waker: nil channel`)
	}
	return NewWaker(func() {
		select {
		case ch <- struct{}{}:
		default:
		}
	})
}

// Wake marks the waker's computation runnable and invokes the notify
// function. It never blocks.
func (w *Waker) Wake() {
	w.woken.Add(1)
	w.notify()
}

// WakeCount returns the number of times Wake has been called.
func (w *Waker) WakeCount() uint64 {
	return w.woken.Load()
}
