package replicate

import "sync/atomic"

// Sequencer hands out strictly increasing tick numbers.
type Sequencer interface {
	Next() int64
	Current() int64
}

// Clock is a monotonic logical clock for tick numbers.
//
// Ticks never use wall time, so a replayed session numbers its batches
// exactly as the original did.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a new clock starting at a specific tick.
// Used to resume a stored session after its last tick.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next tick number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current tick number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
