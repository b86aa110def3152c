package session

import (
	"fmt"

	"github.com/abhisek/coursewalk/internal/progress"
	"github.com/abhisek/coursewalk/internal/stats"
)

func (s *Session) summary(index int) progress.Summary {
	return progress.Summary{
		LastAccessed:         s.now().UTC(),
		CurrentTurn:          index,
		TotalTurns:           s.index.Len(),
		CompletionPercentage: s.agg.CompletionPercentage(s.index.Len()),
	}
}

// Summary returns the progress summary for the current position.
func (s *Session) Summary() progress.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary(s.coord.State().Index)
}

// Stats returns a copy of the accumulated statistics.
func (s *Session) Stats() *stats.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agg.Stats()
}

// Report returns viewed/total figures for every content category.
func (s *Session) Report() stats.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agg.Report(s.index.Totals())
}

// Welcome returns the resume line for a returning learner. It is empty on a
// first visit and when the last session ended on the first turn.
func Welcome(p *progress.Summary) string {
	if p == nil || p.CurrentTurn <= 0 {
		return ""
	}
	return fmt.Sprintf("Welcome back! Resuming from message %d of %d (%d%% complete).",
		p.CurrentTurn+1, p.TotalTurns, p.CompletionPercentage)
}
