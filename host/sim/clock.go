package sim

import (
	"sync"
	"time"
)

// Clock is a virtual clock. Delay advances virtual time immediately
// unless the clock is realtime, in which case it also sleeps.
type Clock struct {
	mu       sync.Mutex
	now      time.Duration
	realtime bool
}

// NewClock creates a clock starting at zero uptime
func NewClock(realtime bool) *Clock {
	return &Clock{realtime: realtime}
}

func (c *Clock) Delay(d time.Duration) {
	if d <= 0 {
		return
	}
	if c.realtime {
		time.Sleep(d)
	}
	c.mu.Lock()
	c.now += d
	c.mu.Unlock()
}

func (c *Clock) Uptime() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Reset sets uptime back to zero, as a chip reset does
func (c *Clock) Reset() {
	c.mu.Lock()
	c.now = 0
	c.mu.Unlock()
}
