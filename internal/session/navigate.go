package session

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/coursewalk/internal/autoplay"
	"github.com/abhisek/coursewalk/internal/course"
	"github.com/abhisek/coursewalk/internal/navigation"
)

// apply settles an accepted transition. s.mu must be held.
func (s *Session) apply(ctx context.Context, t navigation.Transition, ok bool) (navigation.Transition, bool) {
	if ok {
		s.settle(ctx, t, false)
	}
	return t, ok
}

// Wheel feeds one wheel event to the navigation controller.
func (s *Session) Wheel(ctx context.Context, deltaY float64, at navigation.Point) (navigation.Transition, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.nav.Wheel(deltaY, at)
	return s.apply(ctx, t, ok)
}

// TouchStart begins a swipe gesture.
func (s *Session) TouchStart(at navigation.Point) {
	s.nav.TouchStart(at)
}

// TouchMove feeds the current point of a swipe gesture.
func (s *Session) TouchMove(ctx context.Context, at navigation.Point) (navigation.Transition, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.nav.TouchMove(at)
	return s.apply(ctx, t, ok)
}

// TouchEnd ends a swipe gesture.
func (s *Session) TouchEnd() {
	s.nav.TouchEnd()
}

// Key feeds an arrow key press.
func (s *Session) Key(ctx context.Context, k navigation.Key, target navigation.Target, mods navigation.Modifiers) (navigation.Transition, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.nav.Key(k, target, mods)
	return s.apply(ctx, t, ok)
}

// SetSidebar sets the screen region whose input never navigates.
func (s *Session) SetSidebar(r navigation.Rect) {
	s.nav.SetSidebar(r)
}

// Next moves forward one turn as a manual step.
func (s *Session) Next(ctx context.Context) navigation.Transition {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, _ := s.apply(ctx, s.coord.Advance(navigation.SourceKey), true)
	return t
}

// Prev moves back one turn as a manual step.
func (s *Session) Prev(ctx context.Context) navigation.Transition {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, _ := s.apply(ctx, s.coord.Retreat(navigation.SourceKey), true)
	return t
}

// JumpTo moves to turn i. Autoplay is switched off.
func (s *Session) JumpTo(ctx context.Context, i int) (navigation.Transition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.coord.JumpTo(i, navigation.SourceJump)
	if !ok {
		return t, fmt.Errorf("turn %d: %w", i, ErrNotFound)
	}
	s.settle(ctx, t, false)
	return t, nil
}

// Locate moves to the offset-th turn of a subsection. Autoplay is
// switched off.
func (s *Session) Locate(ctx context.Context, sectionID, subsectionID course.ID, offset int) (navigation.Transition, error) {
	i, ok := s.index.Locate(sectionID, subsectionID, offset)
	if !ok {
		return navigation.Transition{}, fmt.Errorf("section %s subsection %s offset %d: %w",
			sectionID, subsectionID, offset, ErrNotFound)
	}
	return s.JumpTo(ctx, i)
}

// StartAutoplay switches autoplay on and returns the first tick to
// schedule. It reports false at the last turn.
func (s *Session) StartAutoplay() (autoplay.Tick, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduler.Start()
}

// StopAutoplay switches autoplay off.
func (s *Session) StopAutoplay() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduler.Stop()
}

// ToggleAutoplay pauses or resumes autoplay.
func (s *Session) ToggleAutoplay() (autoplay.Tick, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduler.Toggle()
}

// SetAutoplaySpeed changes the interval, clamped to the configured bounds.
// The returned tick replaces any pending one while autoplay runs.
func (s *Session) SetAutoplaySpeed(d time.Duration) (time.Duration, autoplay.Tick) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduler.SetSpeed(d)
}

// AutoplayFaster shortens the interval by one step.
func (s *Session) AutoplayFaster() (time.Duration, autoplay.Tick) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduler.Faster()
}

// AutoplaySlower lengthens the interval by one step.
func (s *Session) AutoplaySlower() (time.Duration, autoplay.Tick) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduler.Slower()
}

// AutoplaySettings returns the autoplay bounds and current speed.
func (s *Session) AutoplaySettings() autoplay.Settings {
	return s.scheduler.Settings()
}

// AutoplayTick runs a scheduled tick. Stale ticks change nothing. The
// returned tick, when armed, is the next one to schedule.
func (s *Session) AutoplayTick(ctx context.Context, gen uint64) (navigation.Transition, autoplay.Tick, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, next, ok := s.scheduler.Fire(gen)
	if ok {
		s.settle(ctx, t, false)
	}
	return t, next, ok
}
