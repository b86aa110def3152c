// Package autoplay advances a session on a fixed interval until the learner
// takes over or the last turn is reached.
//
// The Scheduler does not own a timer. Each armed interval is handed out as
// a Tick carrying a generation number; the caller waits Tick.Delay and then
// calls Fire with that generation. Starting, stopping or changing speed
// bumps the generation, so ticks that were already in flight become no-ops.
package autoplay

import (
	"sync"
	"time"

	"github.com/abhisek/coursewalk/internal/navigation"
)

// Settings bound the autoplay interval.
type Settings struct {
	Speed time.Duration
	Min   time.Duration
	Max   time.Duration
	Step  time.Duration
}

// DefaultSettings returns a 3s interval adjustable from 1s to 8s in half
// second steps.
func DefaultSettings() Settings {
	return Settings{
		Speed: 3 * time.Second,
		Min:   time.Second,
		Max:   8 * time.Second,
		Step:  500 * time.Millisecond,
	}
}

func (s Settings) normalize() Settings {
	d := DefaultSettings()
	if s.Min <= 0 {
		s.Min = d.Min
	}
	if s.Max < s.Min {
		s.Max = max(d.Max, s.Min)
	}
	if s.Step <= 0 {
		s.Step = d.Step
	}
	if s.Speed <= 0 {
		s.Speed = d.Speed
	}
	s.Speed = s.clamp(s.Speed)
	return s
}

func (s Settings) clamp(d time.Duration) time.Duration {
	return min(max(d, s.Min), s.Max)
}

// Tick is one armed interval. The zero Tick means nothing is armed.
type Tick struct {
	Gen   uint64
	Delay time.Duration
}

// Armed reports whether t should be scheduled.
func (t Tick) Armed() bool {
	return t.Gen != 0
}

// Scheduler drives autoplay through a navigation.Coordinator.
type Scheduler struct {
	mu       sync.Mutex
	coord    *navigation.Coordinator
	settings Settings
	gen      uint64
}

// New returns a stopped Scheduler.
func New(coord *navigation.Coordinator, settings Settings) *Scheduler {
	settings = settings.normalize()
	coord.SetSpeed(settings.Speed)
	return &Scheduler{coord: coord, settings: settings}
}

// Settings returns the current bounds and speed.
func (s *Scheduler) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Speed returns the current interval.
func (s *Scheduler) Speed() time.Duration {
	return s.Settings().Speed
}

// Active reports whether autoplay is on.
func (s *Scheduler) Active() bool {
	return s.coord.State().Autoplay
}

func (s *Scheduler) arm() Tick {
	s.gen++
	return Tick{Gen: s.gen, Delay: s.settings.Speed}
}

// Start switches autoplay on from the current index and arms the first
// tick. It reports false when already at the last turn.
func (s *Scheduler) Start() (Tick, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.coord.SetAutoplay(true).Autoplay {
		s.gen++
		return Tick{}, false
	}
	return s.arm(), true
}

// Stop switches autoplay off. Any tick in flight becomes stale.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coord.SetAutoplay(false)
	s.gen++
}

// Toggle stops a running autoplay or starts a stopped one.
func (s *Scheduler) Toggle() (Tick, bool) {
	if s.Active() {
		s.Stop()
		return Tick{}, false
	}
	return s.Start()
}

// SetSpeed clamps d into the configured bounds. When autoplay is on the
// pending tick is replaced by one using the new interval.
func (s *Scheduler) SetSpeed(d time.Duration) (time.Duration, Tick) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Speed = s.settings.clamp(d)
	s.coord.SetSpeed(s.settings.Speed)
	if !s.coord.State().Autoplay {
		return s.settings.Speed, Tick{}
	}
	return s.settings.Speed, s.arm()
}

// Faster shortens the interval by one step.
func (s *Scheduler) Faster() (time.Duration, Tick) {
	st := s.Settings()
	return s.SetSpeed(st.Speed - st.Step)
}

// Slower lengthens the interval by one step.
func (s *Scheduler) Slower() (time.Duration, Tick) {
	st := s.Settings()
	return s.SetSpeed(st.Speed + st.Step)
}

// Fire runs the tick of generation gen. A stale generation, or a tick that
// arrives after autoplay was switched off, changes nothing. On success it
// returns the transition and, unless autoplay stopped at the last turn,
// the next tick to schedule.
func (s *Scheduler) Fire(gen uint64) (navigation.Transition, Tick, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.coord.Tick(func() bool { return gen == s.gen })
	if !ok {
		return t, Tick{}, false
	}
	if !t.Autoplay {
		s.gen++
		return t, Tick{}, true
	}
	return t, s.arm(), true
}
