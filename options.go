package timerqueue

import (
	"errors"

	"github.com/joeycumines/logiface"
)

// Default capacities.
const (
	// DefaultQueueCapacity bounds the WakeQueue's internal entry table.
	DefaultQueueCapacity = 128

	// DefaultPoolCapacity bounds the AlarmPool's slot array.
	DefaultPoolCapacity = 16
)

// commonOptions holds configuration shared by WakeQueue and AlarmPool.
type commonOptions struct {
	clock      Clock
	service    AlarmService
	dispatcher Dispatcher
	mode       DispatchMode
	logger     *logiface.Logger[logiface.Event]
}

// queueOptions holds configuration options for WakeQueue creation.
type queueOptions struct {
	commonOptions
	capacity int
}

// poolOptions holds configuration options for AlarmPool creation.
type poolOptions struct {
	commonOptions
	capacity int
}

// --- Options ---

// QueueOption configures a WakeQueue instance.
type QueueOption interface {
	applyQueue(*queueOptions) error
}

// PoolOption configures an AlarmPool instance.
type PoolOption interface {
	applyPool(*poolOptions) error
}

// Option configures either a WakeQueue or an AlarmPool.
type Option interface {
	QueueOption
	PoolOption
}

// queueOptionImpl implements QueueOption.
type queueOptionImpl struct {
	applyQueueFunc func(*queueOptions) error
}

func (x *queueOptionImpl) applyQueue(opts *queueOptions) error {
	return x.applyQueueFunc(opts)
}

// poolOptionImpl implements PoolOption.
type poolOptionImpl struct {
	applyPoolFunc func(*poolOptions) error
}

func (x *poolOptionImpl) applyPool(opts *poolOptions) error {
	return x.applyPoolFunc(opts)
}

// optionImpl implements Option via a shared apply func.
type optionImpl struct {
	applyFunc func(*commonOptions) error
}

func (x *optionImpl) applyQueue(opts *queueOptions) error {
	return x.applyFunc(&opts.commonOptions)
}

func (x *optionImpl) applyPool(opts *poolOptions) error {
	return x.applyFunc(&opts.commonOptions)
}

// WithQueueCapacity sets the maximum number of pending waiter entries.
// Scheduling beyond this capacity evicts and wakes the earliest pending
// entry rather than rejecting the request. Defaults to
// DefaultQueueCapacity.
func WithQueueCapacity(n int) QueueOption {
	return &queueOptionImpl{func(opts *queueOptions) error {
		if n <= 0 {
			return errors.New("timerqueue: queue capacity must be positive")
		}
		opts.capacity = n
		return nil
	}}
}

// WithPoolCapacity sets the maximum number of alarm slots. Defaults to
// DefaultPoolCapacity.
func WithPoolCapacity(n int) PoolOption {
	return &poolOptionImpl{func(opts *poolOptions) error {
		if n <= 0 {
			return errors.New("timerqueue: pool capacity must be positive")
		}
		opts.capacity = n
		return nil
	}}
}

// WithClock sets the tick source. Defaults to NewClock().
func WithClock(clock Clock) Option {
	return &optionImpl{func(opts *commonOptions) error {
		if clock == nil {
			return errors.New("timerqueue: nil clock")
		}
		opts.clock = clock
		return nil
	}}
}

// WithAlarmService sets the alarm factory. Defaults to NewHostAlarmService().
func WithAlarmService(service AlarmService) Option {
	return &optionImpl{func(opts *commonOptions) error {
		if service == nil {
			return errors.New("timerqueue: nil alarm service")
		}
		opts.service = service
		return nil
	}}
}

// WithDispatchMode selects the fire dispatch strategy. Defaults to
// DispatchTask. Ignored when WithDispatcher is also given.
func WithDispatchMode(mode DispatchMode) Option {
	return &optionImpl{func(opts *commonOptions) error {
		if mode != DispatchTask && mode != DispatchISR {
			return errors.New("timerqueue: unknown dispatch mode")
		}
		opts.mode = mode
		return nil
	}}
}

// WithDispatcher sets an explicit fire dispatch strategy, overriding
// WithDispatchMode.
func WithDispatcher(dispatcher Dispatcher) Option {
	return &optionImpl{func(opts *commonOptions) error {
		if dispatcher == nil {
			return errors.New("timerqueue: nil dispatcher")
		}
		opts.dispatcher = dispatcher
		return nil
	}}
}

// WithLogger sets the structured logger. A nil logger disables logging (the
// default).
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(opts *commonOptions) error {
		opts.logger = logger
		return nil
	}}
}

// resolve fills in defaults for unset shared options.
func (opts *commonOptions) resolve() {
	if opts.clock == nil {
		opts.clock = NewClock()
	}
	if opts.service == nil {
		opts.service = NewHostAlarmService()
	}
	if opts.dispatcher == nil {
		opts.dispatcher = newDispatcher(opts.mode)
	}
}

// resolveQueueOptions applies QueueOption instances to queueOptions.
func resolveQueueOptions(opts []QueueOption) (*queueOptions, error) {
	cfg := &queueOptions{capacity: DefaultQueueCapacity}
	for _, opt := range opts {
		if opt == nil {
			continue // Skip nil options gracefully
		}
		if err := opt.applyQueue(cfg); err != nil {
			return nil, err
		}
	}
	cfg.resolve()
	return cfg, nil
}

// resolvePoolOptions applies PoolOption instances to poolOptions.
func resolvePoolOptions(opts []PoolOption) (*poolOptions, error) {
	cfg := &poolOptions{capacity: DefaultPoolCapacity}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyPool(cfg); err != nil {
			return nil, err
		}
	}
	cfg.resolve()
	return cfg, nil
}
