package timerqueue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWaker_Wake(t *testing.T) {
	var calls int
	w := NewWaker(func() { calls++ })

	assert.Equal(t, uint64(0), w.WakeCount())
	w.Wake()
	w.Wake()
	assert.Equal(t, 2, calls)
	assert.Equal(t, uint64(2), w.WakeCount())
}

func TestWaker_Identity(t *testing.T) {
	fn := func() {}
	a, b := NewWaker(fn), NewWaker(fn)
	if a == b {
		t.Fatal("distinct wakers must have distinct identity")
	}
}

func TestNewWaker_NilPanics(t *testing.T) {
	assert.Panics(t, func() { NewWaker(nil) })
}

func TestNewChannelWaker(t *testing.T) {
	ch := make(chan struct{}, 1)
	w := NewChannelWaker(ch)

	w.Wake()
	assert.Len(t, ch, 1)

	// full channel: the send is dropped rather than blocking
	w.Wake()
	assert.Len(t, ch, 1)
	assert.Equal(t, uint64(2), w.WakeCount())
}

func TestNewChannelWaker_NilPanics(t *testing.T) {
	assert.Panics(t, func() { NewChannelWaker(nil) })
}
