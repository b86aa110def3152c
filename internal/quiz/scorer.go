// Package quiz scores learner answers. Three policies are supported: exact
// choice, lenient fill-in-the-blank text matching and key-point partial
// credit for short answers.
package quiz

import (
	"math"
	"strings"
	"unicode"
)

// ScoreChoice reports whether the selected option index is the correct one.
func ScoreChoice(selected, correct int) bool {
	return selected == correct
}

var symbolReplacer = strings.NewReplacer(
	"×", " x ",
	"⁰", "0", "¹", "1", "²", "2", "³", "3", "⁴", "4",
	"⁵", "5", "⁶", "6", "⁷", "7", "⁸", "8", "⁹", "9",
	"₀", "0", "₁", "1", "₂", "2", "₃", "3", "₄", "4",
	"₅", "5", "₆", "6", "₇", "7", "₈", "8", "₉", "9",
)

// Normalize lower-cases s, maps the multiplication sign and super- and
// subscript digits to their ASCII forms, drops punctuation and collapses whitespace.
func Normalize(s string) string {
	s = symbolReplacer.Replace(strings.ToLower(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// ScoreFillBlank accepts user when it normalizes to the expected answer or
// either normalized form contains the other. The containment rule is
// lenient: a long answer that happens to contain the expected text passes.
// An answer that normalizes to nothing is always wrong.
func ScoreFillBlank(user, expected string) bool {
	u := Normalize(user)
	if u == "" {
		return false
	}
	e := Normalize(expected)
	return u == e || strings.Contains(u, e) || strings.Contains(e, u)
}

// ScoreKeyPoints returns round(100 * matched / len(keyPoints)) where a key
// point matches when it appears, case-insensitively, in the answer. An
// empty answer or an empty key point list scores 0.
func ScoreKeyPoints(user string, keyPoints []string) int {
	answer := strings.ToLower(strings.TrimSpace(user))
	if answer == "" || len(keyPoints) == 0 {
		return 0
	}
	matched := 0
	for _, kp := range MatchedKeyPoints(answer, keyPoints) {
		if kp {
			matched++
		}
	}
	return min(100, int(math.Round(float64(matched)/float64(len(keyPoints))*100)))
}

// MatchedKeyPoints reports, per key point, whether it appears in the
// answer.
func MatchedKeyPoints(user string, keyPoints []string) []bool {
	answer := strings.ToLower(user)
	out := make([]bool, len(keyPoints))
	for i, kp := range keyPoints {
		kp = strings.ToLower(strings.TrimSpace(kp))
		out[i] = kp != "" && strings.Contains(answer, kp)
	}
	return out
}
