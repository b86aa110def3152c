// Package navigation owns the learner's position in the dialogue sequence.
// A single Coordinator serializes every change of index and autoplay flag;
// the Controller turns raw wheel, touch and key input into at most one
// step per gesture.
package navigation

import "time"

// State is the mutable position of a session.
type State struct {
	Index    int
	Autoplay bool
	Speed    time.Duration
}

// Source identifies what requested a transition.
type Source int

const (
	SourceWheel Source = iota
	SourceTouch
	SourceKey
	SourceJump
	SourceAutoplay
	SourceReset
)

func (s Source) String() string {
	switch s {
	case SourceWheel:
		return "wheel"
	case SourceTouch:
		return "touch"
	case SourceKey:
		return "key"
	case SourceJump:
		return "jump"
	case SourceAutoplay:
		return "autoplay"
	case SourceReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Manual reports whether the source is learner input. Manual transitions
// always switch autoplay off.
func (s Source) Manual() bool {
	return s != SourceAutoplay
}

// Transition describes one accepted request. From and To are equal when a
// step clamped at a boundary.
type Transition struct {
	From   int
	To     int
	Source Source

	// Autoplay is the flag after the transition.
	Autoplay bool

	// AutoplayChanged is set when the transition toggled autoplay.
	AutoplayChanged bool
}

// Moved reports whether the index changed.
func (t Transition) Moved() bool {
	return t.From != t.To
}
