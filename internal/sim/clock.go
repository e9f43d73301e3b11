package sim

import "time"

// Clock turns wall time into per-frame elapsed seconds for hosts that do not
// provide their own frame delta.
type Clock struct {
	now  func() time.Time
	last time.Time
}

func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// Tick returns the seconds since the previous Tick, or 0 on the first call.
func (c *Clock) Tick() float64 {
	t := c.now()
	if c.last.IsZero() {
		c.last = t
		return 0
	}
	elapsed := t.Sub(c.last).Seconds()
	c.last = t
	if elapsed < 0 {
		return 0
	}
	return elapsed
}
