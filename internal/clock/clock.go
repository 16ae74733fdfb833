// Package clock gives every other package in the simulator a single,
// cheap, monotonic millisecond timestamp source.
package clock

import (
	"sync"
	"time"
)

// Clock produces monotonic, millisecond-resolution timestamps anchored to
// the moment it was created. It is safe to call Now from many goroutines
// at once, including from the tight busy loops in internal/worker.
type Clock struct {
	start time.Time

	mu   sync.Mutex
	last uint64
}

// New returns a Clock anchored to the current instant. Calling Now
// immediately afterwards returns 0.
func New() *Clock {
	return &Clock{start: time.Now()}
}

// Now returns milliseconds elapsed since the clock was created. If the host
// clock ever reports a time earlier than the previous reading, Now
// saturates at that previous reading instead of going backwards.
func (c *Clock) Now() uint64 {
	elapsed := time.Since(c.start)
	ms := uint64(0)
	if elapsed > 0 {
		ms = uint64(elapsed.Milliseconds())
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if ms < c.last {
		return c.last
	}
	c.last = ms
	return ms
}
