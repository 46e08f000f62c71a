package timerqueue

import "sync"

// defaultQueue is the lazily-initialized process-wide wake queue, exposed
// through the one narrow access point Default.
var defaultQueue struct {
	once  sync.Once
	queue *WakeQueue
	err   error
}

// Default returns the process-wide WakeQueue, creating it with default
// options on first use. The returned queue must not be closed.
func Default() (*WakeQueue, error) {
	defaultQueue.once.Do(func() {
		defaultQueue.queue, defaultQueue.err = NewWakeQueue()
	})
	return defaultQueue.queue, defaultQueue.err
}

// ScheduleWake schedules a wake on the Default queue. See
// WakeQueue.ScheduleWake.
func ScheduleWake(at Ticks, w *Waker) error {
	q, err := Default()
	if err != nil {
		return err
	}
	return q.ScheduleWake(at, w)
}
