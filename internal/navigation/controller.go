package navigation

import (
	"math"
	"sync"
	"time"
)

// DefaultTouchThreshold is the vertical travel a swipe needs before it
// counts as a step.
const DefaultTouchThreshold = 50

// Config tunes the Controller.
type Config struct {
	// Cooldown is shared by wheel and touch input.
	Cooldown time.Duration

	// WheelThreshold is the |deltaY| a wheel event must exceed.
	WheelThreshold float64

	// TouchThreshold is the |dy| a swipe must reach.
	TouchThreshold float64

	// Clock returns the current time. Nil means time.Now.
	Clock func() time.Time
}

// DefaultConfig returns the stock input tuning.
func DefaultConfig() Config {
	return Config{
		Cooldown:       DefaultCooldown,
		WheelThreshold: 0,
		TouchThreshold: DefaultTouchThreshold,
	}
}

// Point is a position on the input surface.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned region of the input surface.
type Rect struct {
	X, Y, W, H float64
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return !r.Empty() && p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Target is where keyboard focus sits when a key arrives.
type Target int

const (
	TargetMain Target = iota
	TargetEditable
	TargetSidebar
)

// Key is a navigation key.
type Key int

const (
	KeyOther Key = iota
	KeyUp
	KeyDown
)

// Modifiers are the modifier keys held with a key press.
type Modifiers struct {
	Ctrl, Alt, Meta, Super, Shift bool
}

// Blocking reports whether the modifiers suppress arrow navigation.
// Shift alone does not.
func (m Modifiers) Blocking() bool {
	return m.Ctrl || m.Alt || m.Meta || m.Super
}

// Controller turns wheel, touch and key input into single-step transitions
// on a Coordinator. Input that starts in the sidebar region never moves.
type Controller struct {
	coord     *Coordinator
	coalescer *Coalescer
	cfg       Config

	mu      sync.Mutex
	sidebar Rect
	touch   touchState
}

type touchState struct {
	active bool
	fired  bool
	start  Point
}

// NewController returns a Controller driving coord.
func NewController(coord *Coordinator, cfg Config) *Controller {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.TouchThreshold <= 0 {
		cfg.TouchThreshold = DefaultTouchThreshold
	}
	return &Controller{
		coord:     coord,
		coalescer: NewCoalescer(cfg.Cooldown),
		cfg:       cfg,
	}
}

// Coordinator returns the Coordinator the Controller drives.
func (c *Controller) Coordinator() *Coordinator {
	return c.coord
}

// Coalescer exposes the shared wheel and touch cooldown.
func (c *Controller) Coalescer() *Coalescer {
	return c.coalescer
}

// SetSidebar sets the excluded region. An empty Rect clears it.
func (c *Controller) SetSidebar(r Rect) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sidebar = r
}

func (c *Controller) inSidebar(p Point) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sidebar.Contains(p)
}

func (c *Controller) step(down bool, src Source) Transition {
	if down {
		return c.coord.Advance(src)
	}
	return c.coord.Retreat(src)
}

// Wheel handles one wheel event. Positive deltaY moves forward. Events at
// or below the threshold are ignored without opening a cooldown.
func (c *Controller) Wheel(deltaY float64, at Point) (Transition, bool) {
	if c.inSidebar(at) {
		return Transition{}, false
	}
	if math.Abs(deltaY) <= c.cfg.WheelThreshold {
		return Transition{}, false
	}
	if !c.coalescer.Admit(c.cfg.Clock()) {
		return Transition{}, false
	}
	return c.step(deltaY > 0, SourceWheel), true
}

// TouchStart begins a gesture. A gesture that starts in the sidebar is
// ignored until the next start.
func (c *Controller) TouchStart(at Point) {
	in := c.inSidebar(at)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch = touchState{active: !in, start: at}
}

// TouchMove handles the current point of an active gesture. Swiping up
// moves forward. A gesture fires at most once.
func (c *Controller) TouchMove(at Point) (Transition, bool) {
	if c.inSidebar(at) {
		return Transition{}, false
	}

	c.mu.Lock()
	ts := c.touch
	c.mu.Unlock()
	if !ts.active || ts.fired {
		return Transition{}, false
	}

	dy := ts.start.Y - at.Y
	dx := math.Abs(ts.start.X - at.X)
	if math.Abs(dy) < c.cfg.TouchThreshold || dx > math.Abs(dy) {
		return Transition{}, false
	}
	if !c.coalescer.Admit(c.cfg.Clock()) {
		return Transition{}, false
	}

	c.mu.Lock()
	c.touch.fired = true
	c.mu.Unlock()
	return c.step(dy > 0, SourceTouch), true
}

// TouchEnd finishes the current gesture.
func (c *Controller) TouchEnd() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch = touchState{}
}

// Key handles an arrow key. Keys are not rate limited but are ignored when
// focus is in an editable control or the sidebar, or when a blocking
// modifier is held.
func (c *Controller) Key(k Key, target Target, mods Modifiers) (Transition, bool) {
	if target != TargetMain || mods.Blocking() {
		return Transition{}, false
	}
	switch k {
	case KeyUp:
		return c.coord.Retreat(SourceKey), true
	case KeyDown:
		return c.coord.Advance(SourceKey), true
	default:
		return Transition{}, false
	}
}
