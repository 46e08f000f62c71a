package timerqueue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatchMode_String(t *testing.T) {
	assert.Equal(t, "task", DispatchTask.String())
	assert.Equal(t, "isr", DispatchISR.String())
	assert.Equal(t, "unknown", DispatchMode(99).String())
}

func TestDirectDispatcher(t *testing.T) {
	d := newDispatcher(DispatchTask)

	var ran bool
	yield := d.Dispatch(func() { ran = true })
	assert.True(t, ran, "direct dispatch runs inline")
	assert.False(t, yield, "direct dispatch never requests a yield")
}

func TestNewDispatcher_ISR(t *testing.T) {
	d := newDispatcher(DispatchISR)
	if _, ok := d.(*DeferredDispatcher); !ok {
		t.Fatalf("newDispatcher(DispatchISR) = %T, want *DeferredDispatcher", d)
	}
}

func TestDeferredDispatcher_Defers(t *testing.T) {
	d := NewDeferredDispatcher()

	var ran bool
	yield := d.Dispatch(func() { ran = true })
	assert.True(t, yield, "deferred dispatch requests a yield")
	assert.False(t, ran, "deferred dispatch must not run inline")
	assert.Equal(t, 1, d.Pending())

	assert.Equal(t, 1, d.Flush())
	assert.True(t, ran)
	assert.Equal(t, 0, d.Pending())
}

func TestDeferredDispatcher_FlushOrder(t *testing.T) {
	d := NewDeferredDispatcher()

	var order []int
	for i := 0; i < 20; i++ {
		i := i
		d.Dispatch(func() { order = append(order, i) })
	}
	assert.Equal(t, 20, d.Flush())
	for i, v := range order {
		if v != i {
			t.Fatalf("order[%d] = %d, deferred sweeps must run head-first", i, v)
		}
	}
}

func TestDeferredDispatcher_FlushDrainsReentrant(t *testing.T) {
	d := NewDeferredDispatcher()

	var nested bool
	d.Dispatch(func() {
		d.Dispatch(func() { nested = true })
	})
	assert.Equal(t, 2, d.Flush(), "callbacks enqueued while flushing are drained too")
	assert.True(t, nested)
}

func TestDeferredDispatcher_FlushEmpty(t *testing.T) {
	d := NewDeferredDispatcher()
	assert.Equal(t, 0, d.Flush())
}
