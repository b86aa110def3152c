package stats

import (
	"fmt"
	"math"

	"github.com/abhisek/coursewalk/internal/course"
)

// Stats is the learner's engagement record. Every set only grows within a
// session and CorrectAnswers never exceeds TotalQuizAttempts.
type Stats struct {
	MessagesViewed     Set[int]    `json:"messagesViewed"`
	SectionsVisited    Set[string] `json:"sectionsVisited"`
	SubsectionsVisited Set[string] `json:"subsectionsVisited"`
	ImagesViewed       Set[string] `json:"imagesViewed"`
	VideosWatched      Set[string] `json:"videosWatched"`
	QuizzesCompleted   Set[string] `json:"quizzesCompleted"`
	CorrectAnswers     int         `json:"correctAnswers"`
	TotalQuizAttempts  int         `json:"totalQuizAttempts"`
}

// New returns an empty Stats with initialized sets.
func New() *Stats {
	return &Stats{
		MessagesViewed:     NewSet[int](),
		SectionsVisited:    NewSet[string](),
		SubsectionsVisited: NewSet[string](),
		ImagesViewed:       NewSet[string](),
		VideosWatched:      NewSet[string](),
		QuizzesCompleted:   NewSet[string](),
	}
}

// Clone returns a deep copy.
func (s *Stats) Clone() *Stats {
	return &Stats{
		MessagesViewed:     s.MessagesViewed.Clone(),
		SectionsVisited:    s.SectionsVisited.Clone(),
		SubsectionsVisited: s.SubsectionsVisited.Clone(),
		ImagesViewed:       s.ImagesViewed.Clone(),
		VideosWatched:      s.VideosWatched.Clone(),
		QuizzesCompleted:   s.QuizzesCompleted.Clone(),
		CorrectAnswers:     s.CorrectAnswers,
		TotalQuizAttempts:  s.TotalQuizAttempts,
	}
}

// Equal compares membership and counters.
func (s *Stats) Equal(o *Stats) bool {
	return s.MessagesViewed.Equal(o.MessagesViewed) &&
		s.SectionsVisited.Equal(o.SectionsVisited) &&
		s.SubsectionsVisited.Equal(o.SubsectionsVisited) &&
		s.ImagesViewed.Equal(o.ImagesViewed) &&
		s.VideosWatched.Equal(o.VideosWatched) &&
		s.QuizzesCompleted.Equal(o.QuizzesCompleted) &&
		s.CorrectAnswers == o.CorrectAnswers &&
		s.TotalQuizAttempts == o.TotalQuizAttempts
}

// SubsectionKey is the composite key recorded in SubsectionsVisited.
func SubsectionKey(sectionID, subsectionID course.ID) string {
	return fmt.Sprintf("%s:%s", sectionID, subsectionID)
}

// MediaKey identifies one sidebar item: the turn, the media kind and the
// item's offset among the turn's items of that kind.
func MediaKey(turnIndex int, kind course.MediaKind, offset int) string {
	return fmt.Sprintf("%d:%s:%d", turnIndex, kind, offset)
}

// Percent returns round(part/whole*100), or 0 when whole is zero.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
