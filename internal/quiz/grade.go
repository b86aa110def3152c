package quiz

import (
	"math"

	"github.com/abhisek/coursewalk/internal/course"
)

// Unanswered marks a multiple-choice question with no selection.
const Unanswered = -1

// Grade is the outcome of one practice set.
type Grade struct {
	Score      int // correct answers, or summed key-point scores for short answers
	Total      int
	Percentage int
	Correct    []bool // per question; short answers count as correct at 50 or above
}

func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

// GradeMultipleChoice grades selections against qs. Missing selections are
// wrong.
func GradeMultipleChoice(qs []course.ChoiceQuestion, selected []int) Grade {
	g := Grade{Total: len(qs), Correct: make([]bool, len(qs))}
	for i, q := range qs {
		if i < len(selected) && selected[i] != Unanswered && ScoreChoice(selected[i], q.CorrectAnswer) {
			g.Correct[i] = true
			g.Score++
		}
	}
	g.Percentage = percent(g.Score, g.Total)
	return g
}

// GradeFillBlanks grades answers against qs with the lenient text match.
func GradeFillBlanks(qs []course.FillBlankQuestion, answers []string) Grade {
	g := Grade{Total: len(qs), Correct: make([]bool, len(qs))}
	for i, q := range qs {
		if i < len(answers) && ScoreFillBlank(answers[i], q.Answer) {
			g.Correct[i] = true
			g.Score++
		}
	}
	g.Percentage = percent(g.Score, g.Total)
	return g
}

// PassingKeyPointScore is the short-answer score counted as correct.
const PassingKeyPointScore = 50

// GradeShortAnswers scores each answer by key points. Percentage is the
// rounded mean of the per-question scores.
func GradeShortAnswers(qs []course.ShortAnswerQuestion, answers []string) (Grade, []int) {
	g := Grade{Total: len(qs), Correct: make([]bool, len(qs))}
	scores := make([]int, len(qs))
	for i, q := range qs {
		if i < len(answers) {
			scores[i] = ScoreKeyPoints(answers[i], q.KeyPoints)
		}
		g.Score += scores[i]
		g.Correct[i] = scores[i] >= PassingKeyPointScore
	}
	if g.Total > 0 {
		g.Percentage = int(math.Round(float64(g.Score) / float64(g.Total)))
	}
	return g, scores
}
