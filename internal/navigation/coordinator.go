package navigation

import (
	"sync"
	"time"
)

// Coordinator is the only writer of State. Manual input and autoplay ticks
// both go through it, so a tick can never interleave with a manual step.
type Coordinator struct {
	mu     sync.Mutex
	state  State
	length int
}

// NewCoordinator returns a Coordinator over a sequence of length turns.
// The initial index is clamped into range and autoplay starts off.
func NewCoordinator(length int, initial State) *Coordinator {
	c := &Coordinator{length: max(length, 0), state: initial}
	c.state.Index = c.clamp(initial.Index)
	c.state.Autoplay = false
	return c
}

// State returns a copy of the current state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Len returns the sequence length.
func (c *Coordinator) Len() int {
	return c.length
}

func (c *Coordinator) clamp(i int) int {
	if c.length == 0 || i < 0 {
		return 0
	}
	return min(i, c.length-1)
}

func (c *Coordinator) last() int {
	return max(c.length-1, 0)
}

// move applies a new index under the lock. Manual sources turn autoplay
// off in the same critical section. Reaching the last turn always turns
// it off.
func (c *Coordinator) move(to int, src Source) Transition {
	t := Transition{From: c.state.Index, Source: src}
	was := c.state.Autoplay

	c.state.Index = c.clamp(to)
	if src.Manual() || c.state.Index >= c.last() {
		c.state.Autoplay = false
	}

	t.To = c.state.Index
	t.Autoplay = c.state.Autoplay
	t.AutoplayChanged = was != c.state.Autoplay
	return t
}

// Advance steps forward by one, clamping at the last turn.
func (c *Coordinator) Advance(src Source) Transition {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.move(c.state.Index+1, src)
}

// Retreat steps back by one, clamping at the first turn.
func (c *Coordinator) Retreat(src Source) Transition {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.move(c.state.Index-1, src)
}

// JumpTo moves directly to i. It reports false, changing nothing, when i
// is outside the sequence.
func (c *Coordinator) JumpTo(i int, src Source) (Transition, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= c.length {
		return Transition{From: c.state.Index, To: c.state.Index, Source: src, Autoplay: c.state.Autoplay}, false
	}
	return c.move(i, src), true
}

// Tick is the autoplay step. It advances only while autoplay is on and
// valid, checked under the lock, reports true. Otherwise it reports false
// and changes nothing.
func (c *Coordinator) Tick(valid func() bool) (Transition, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Autoplay || (valid != nil && !valid()) {
		return Transition{From: c.state.Index, To: c.state.Index, Source: SourceAutoplay, Autoplay: c.state.Autoplay}, false
	}
	return c.move(c.state.Index+1, SourceAutoplay), true
}

// SetAutoplay switches autoplay on or off and returns the resulting state.
// Autoplay cannot be switched on at the last turn.
func (c *Coordinator) SetAutoplay(on bool) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Autoplay = on && c.state.Index < c.last()
	return c.state
}

// SetSpeed records the autoplay interval.
func (c *Coordinator) SetSpeed(d time.Duration) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Speed = d
	return c.state
}
