package engine

import "time"

// FrameClock measures the time between consecutive frames.
// The zero value is ready to use.
type FrameClock struct {
	last    time.Time
	started bool
}

// Delta returns the seconds elapsed since the previous call and records now as the new reference.
// The first call returns 0.
//
// Parameters:
//   - now: the current frame time
//
// Returns:
//   - float32: elapsed seconds since the previous frame
func (c *FrameClock) Delta(now time.Time) float32 {
	if !c.started {
		c.started = true
		c.last = now
		return 0
	}
	dt := float32(now.Sub(c.last).Seconds())
	c.last = now
	return dt
}

// Reset forgets the previous frame so the next Delta returns 0.
func (c *FrameClock) Reset() {
	c.started = false
	c.last = time.Time{}
}
