package gametime

import "time"

// GameTime is one discrete advance of in-game time. Tick is the scheduler's
// monotonic counter; Timestamp is the in-game wall clock for that tick.
type GameTime struct {
	Tick      int64     `json:"tick"`
	Timestamp time.Time `json:"timestamp"`
}

// DateKey returns the stats bucket key for this tick's in-game day.
func (g GameTime) DateKey() string { return g.Timestamp.UTC().Format("2006-01-02") }
