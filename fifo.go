package timerqueue

type fifo[E any] struct {
	s    []E
	r, w uint
}

func newFIFO[E any](size int) *fifo[E] {
	if size <= 0 || size&(size-1) != 0 {
		panic(`timerqueue: fifo: size must be a power of 2`)
	}
	return &fifo[E]{s: make([]E, size)}
}

func (x *fifo[E]) mask(val uint) uint {
	return val & (uint(len(x.s)) - 1)
}

func (x *fifo[E]) Len() int {
	return int(x.w - x.r)
}

func (x *fifo[E]) Cap() int {
	return len(x.s)
}

// Push appends value, doubling the buffer when full.
func (x *fifo[E]) Push(value E) {
	if x.Len() == len(x.s) {
		s := make([]E, uint(len(x.s))<<1)
		if len(s) == 0 {
			panic(`timerqueue: fifo: push: overflow`)
		}
		// unwrap into the new buffer, starting at 0
		i := int(x.mask(x.r))
		n := copy(s, x.s[i:])
		copy(s[n:], x.s[:i])
		x.r = 0
		x.w = uint(len(x.s))
		x.s = s
	}
	x.s[x.mask(x.w)] = value
	x.w++
}

// Pop removes and returns the oldest value, if any.
func (x *fifo[E]) Pop() (value E, ok bool) {
	if x.r == x.w {
		return
	}
	i := x.mask(x.r)
	value, ok = x.s[i], true
	var zero E
	x.s[i] = zero
	x.r++
	return
}
