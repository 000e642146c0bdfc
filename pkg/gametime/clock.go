package gametime

import (
	"sync"
	"time"
)

// Clock is the shared time source for player-facing actions. It follows the
// scheduler: every processed tick advances it to that tick's timestamp, so
// entities created between ticks carry in-game dates rather than wall-clock
// dates. Before the first tick it falls back to wall time.
type Clock struct {
	mu   sync.RWMutex
	last time.Time
}

func NewClock() *Clock { return &Clock{} }

// Now returns the latest observed game timestamp, or wall time (UTC) when no
// tick has been seen yet.
func (c *Clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.last.IsZero() {
		return time.Now().UTC()
	}
	return c.last
}

// Advance moves the clock forward to t. Older timestamps are ignored so a
// replayed tick cannot run the clock backwards.
func (c *Clock) Advance(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t = t.UTC()
	if t.After(c.last) {
		c.last = t
	}
}
