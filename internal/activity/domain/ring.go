package domain

// eventRing is a fixed-capacity ring buffer of activity events. Appending
// past capacity overwrites the oldest event in O(1).
type eventRing struct {
	buf  []ActivityEvent
	head int // index of the oldest event
	size int
}

func newEventRing(capacity int) *eventRing {
	return &eventRing{buf: make([]ActivityEvent, capacity)}
}

func (r *eventRing) Len() int {
	return r.size
}

// Append adds an event, evicting the oldest one when the ring is full.
func (r *eventRing) Append(e ActivityEvent) {
	if r.size < len(r.buf) {
		r.buf[(r.head+r.size)%len(r.buf)] = e
		r.size++
		return
	}
	r.buf[r.head] = e
	r.head = (r.head + 1) % len(r.buf)
}

// Events returns all retained events, oldest first.
func (r *eventRing) Events() []ActivityEvent {
	out := make([]ActivityEvent, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	return out
}

// Recent returns the newest n events in chronological order. n larger than
// the retained count returns everything.
func (r *eventRing) Recent(n int) []ActivityEvent {
	if n > r.size {
		n = r.size
	}
	out := make([]ActivityEvent, n)
	start := r.size - n
	for i := 0; i < n; i++ {
		out[i] = r.buf[(r.head+start+i)%len(r.buf)]
	}
	return out
}

func (r *eventRing) clone() *eventRing {
	cp := &eventRing{
		buf:  make([]ActivityEvent, len(r.buf)),
		head: r.head,
		size: r.size,
	}
	copy(cp.buf, r.buf)
	return cp
}
