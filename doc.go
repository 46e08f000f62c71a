// Package timerqueue multiplexes an unbounded number of logical timed-wake
// requests onto a small, fixed set of alarm resources, in the shape required
// by cooperative task runtimes that own one or a few hardware countdown
// timers.
//
// # Architecture
//
// Two independent multiplexers are provided:
//
//   - [WakeQueue]: a capacity-bounded, deadline-sorted set of (deadline,
//     [Waker]) entries sharing exactly one [Alarm]. The alarm is lazily bound
//     on first use and is always armed to the earliest pending deadline (or
//     disarmed when the queue is empty). [WakeQueue.ScheduleWake] is the sole
//     entry point used by a timer-future registration path.
//   - [AlarmPool]: a fixed-capacity array of independent alarm slots, each
//     bound 1:1 to its own [Alarm], allocated lazily and never freed. Slots
//     match the shape a generic multi-alarm time-driver interface expects:
//     [AlarmPool.Allocate], [AlarmPool.SetCallback], [AlarmPool.Arm], and
//     [AlarmPool.Now].
//
// The alarm primitive itself is external: implementations of [Alarm] and
// [AlarmService] adapt whatever countdown resource the platform provides.
// [NewHostAlarmService] ships a hosted implementation backed by the runtime
// timer, suitable for tests and non-embedded use.
//
// # Dispatch Modes
//
// Alarm fire callbacks may execute in a context where running the sweep
// directly is unsafe (interrupt context, on platforms that dispatch alarms
// from ISRs). The dispatch strategy is selected once at composition time via
// [WithDispatchMode] or [WithDispatcher]: [DispatchTask] runs the sweep
// inline from the fire callback, while [DispatchISR] defers it to a
// [DeferredDispatcher] drained at a safe point, signalling that a yield is
// required.
//
// # Overflow Policy
//
// A full WakeQueue never rejects a schedule request. Instead the entry with
// the earliest pending deadline is removed and woken immediately, repeatedly
// until room exists. Callers must therefore tolerate wakes earlier than
// requested. Deadlines already in the past are honored by an immediate sweep
// during ScheduleWake, without waiting for a hardware fire.
//
// # Thread Safety
//
// All exported methods are safe for concurrent use. Wakers are invoked
// outside the internal critical section, in deadline order (FIFO among equal
// deadlines), so a waker's notify function may safely call back into the
// queue. Notify functions must not block.
//
// # Usage
//
//	q, err := timerqueue.NewWakeQueue(
//	    timerqueue.WithQueueCapacity(128),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer q.Close()
//
//	woken := make(chan struct{}, 1)
//	w := timerqueue.NewChannelWaker(woken)
//	if err := q.ScheduleWake(q.Now()+timerqueue.TicksFromDuration(time.Millisecond), w); err != nil {
//	    log.Fatal(err)
//	}
//	<-woken
package timerqueue
