package navigation

import (
	"sync"
	"time"
)

// DefaultCooldown is how long an accepted wheel or touch step blocks the
// next one.
const DefaultCooldown = 300 * time.Millisecond

// Phase is the state of a Coalescer.
type Phase int

const (
	Idle Phase = iota
	Cooldown
)

func (p Phase) String() string {
	if p == Cooldown {
		return "cooldown"
	}
	return "idle"
}

// Coalescer lets one gesture through and drops the rest until the cooldown
// expires. Time is passed in so callers control the clock.
type Coalescer struct {
	mu        sync.Mutex
	cooldown  time.Duration
	expiresAt time.Time
}

// NewCoalescer returns an idle Coalescer. A non-positive cooldown selects
// DefaultCooldown.
func NewCoalescer(cooldown time.Duration) *Coalescer {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Coalescer{cooldown: cooldown}
}

// Phase reports the state at now and, in Cooldown, when it ends.
func (c *Coalescer) Phase(now time.Time) (Phase, time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if now.Before(c.expiresAt) {
		return Cooldown, c.expiresAt
	}
	return Idle, time.Time{}
}

// Blocked reports whether a step at now would be dropped.
func (c *Coalescer) Blocked(now time.Time) bool {
	p, _ := c.Phase(now)
	return p == Cooldown
}

// Admit accepts a step at now when idle and opens a new cooldown. Steps
// dropped during a cooldown do not extend it.
func (c *Coalescer) Admit(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if now.Before(c.expiresAt) {
		return false
	}
	c.expiresAt = now.Add(c.cooldown)
	return true
}

// Reset returns the Coalescer to Idle.
func (c *Coalescer) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expiresAt = time.Time{}
}
