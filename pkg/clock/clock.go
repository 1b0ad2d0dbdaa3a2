// Package clock supplies per-frame timing to a simulation loop: the delta
// since the previous frame and a flag raised once every elapsed second.
package clock

import "time"

// Clock tracks frame timing from a monotonic time source. Call Update once
// per frame before reading Delta. A Clock is not safe for concurrent use.
type Clock struct {
	now func() time.Time

	lastTick     time.Time
	sinceStart   time.Duration
	lastFrame    time.Duration
	secondsTimer time.Duration
	secondFlag   bool
}

// New creates a clock driven by the wall clock
func New() *Clock {
	return NewWithSource(time.Now)
}

// NewWithSource creates a clock driven by now, which must be monotonic
func NewWithSource(now func() time.Time) *Clock {
	return &Clock{
		now:      now,
		lastTick: now(),
	}
}

// Update samples the time source and closes the current frame
func (c *Clock) Update() {
	t := c.now()
	diff := t.Sub(c.lastTick)
	if diff < 0 {
		diff = 0
	}
	c.lastTick = t

	c.lastFrame = c.sinceStart
	c.sinceStart += diff

	c.secondsTimer += diff
	if c.secondsTimer >= time.Second {
		c.secondsTimer = 0
		c.secondFlag = true
	}
}

// Delta returns the length of the last frame in seconds
func (c *Clock) Delta() float32 {
	return float32((c.sinceStart - c.lastFrame).Seconds())
}

// Elapsed returns the accumulated time across all frames
func (c *Clock) Elapsed() time.Duration {
	return c.sinceStart
}

// SecondElapsed reports whether a second boundary was crossed since the last
// call, clearing the flag.
func (c *Clock) SecondElapsed() bool {
	if c.secondFlag {
		c.secondFlag = false
		return true
	}
	return false
}
