package stats

import (
	"github.com/abhisek/coursewalk/internal/course"
)

// Aggregator records learner engagement into a Stats value. Every record
// operation is idempotent on the sets; only RecordQuizAnswer touches the
// counters.
type Aggregator struct {
	stats *Stats
}

// NewAggregator wraps s, or a fresh Stats when s is nil.
func NewAggregator(s *Stats) *Aggregator {
	if s == nil {
		s = New()
	}
	return &Aggregator{stats: s}
}

// Stats returns a snapshot of the current record.
func (a *Aggregator) Stats() *Stats {
	return a.stats.Clone()
}

// Reset drops every recorded item.
func (a *Aggregator) Reset() {
	a.stats = New()
}

// RecordVisit marks a turn as viewed along with its section and
// subsection. It reports whether anything new was recorded.
func (a *Aggregator) RecordVisit(t course.Turn) bool {
	grew := a.stats.MessagesViewed.Add(t.Index)
	if a.stats.SectionsVisited.Add(string(t.SectionID)) {
		grew = true
	}
	if a.stats.SubsectionsVisited.Add(SubsectionKey(t.SectionID, t.SubsectionID)) {
		grew = true
	}
	return grew
}

// RecordMedia marks an image or video as opened. Quizzes are recorded
// through RecordQuizAnswer; other kinds are ignored.
func (a *Aggregator) RecordMedia(turnIndex int, kind course.MediaKind, offset int) bool {
	key := MediaKey(turnIndex, kind, offset)
	switch kind {
	case course.KindImage:
		return a.stats.ImagesViewed.Add(key)
	case course.KindVideo:
		return a.stats.VideosWatched.Add(key)
	default:
		return false
	}
}

// RecordQuizAnswer marks the quiz complete and counts the attempt. Whether
// a repeat submission reaches here is the caller's policy.
func (a *Aggregator) RecordQuizAnswer(key string, correct bool) {
	a.stats.QuizzesCompleted.Add(key)
	a.stats.TotalQuizAttempts++
	if correct {
		a.stats.CorrectAnswers++
	}
}

// QuizCompleted reports whether key has been answered before.
func (a *Aggregator) QuizCompleted(key string) bool {
	return a.stats.QuizzesCompleted.Has(key)
}

// CompletionPercentage is the share of totalTurns that have been viewed.
func (a *Aggregator) CompletionPercentage(totalTurns int) int {
	return Percent(a.stats.MessagesViewed.Len(), totalTurns)
}

// Accuracy is the share of quiz attempts answered correctly.
func (a *Aggregator) Accuracy() int {
	return Percent(a.stats.CorrectAnswers, a.stats.TotalQuizAttempts)
}

// Ratio is a viewed/total pair with its rounded percentage.
type Ratio struct {
	Done    int
	Total   int
	Percent int
}

func ratio(done, total int) Ratio {
	return Ratio{Done: done, Total: total, Percent: Percent(done, total)}
}

// Report summarizes engagement against the course totals.
type Report struct {
	Messages    Ratio
	Sections    Ratio
	Subsections Ratio
	Images      Ratio
	Videos      Ratio
	Quizzes     Ratio
	Correct     int
	Attempts    int
	Accuracy    int
}

// Report builds a Report from the current record.
func (a *Aggregator) Report(t course.Totals) Report {
	s := a.stats
	return Report{
		Messages:    ratio(s.MessagesViewed.Len(), t.Turns),
		Sections:    ratio(s.SectionsVisited.Len(), t.Sections),
		Subsections: ratio(s.SubsectionsVisited.Len(), t.Subsections),
		Images:      ratio(s.ImagesViewed.Len(), t.Images),
		Videos:      ratio(s.VideosWatched.Len(), t.Videos),
		Quizzes:     ratio(s.QuizzesCompleted.Len(), t.Quizzes),
		Correct:     s.CorrectAnswers,
		Attempts:    s.TotalQuizAttempts,
		Accuracy:    a.Accuracy(),
	}
}
