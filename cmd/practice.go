package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/coursewalk/internal/course"
	"github.com/abhisek/coursewalk/internal/llm"
	"github.com/abhisek/coursewalk/internal/quiz"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Answer the course's practice questions",
	Long: "Practice asks the multiple-choice, fill-in-the-blank and short-answer questions " +
		"of the course and grades them. Short answers get written feedback when an LLM " +
		"provider is configured.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		c, err := rt.loadCourse()
		if err != nil {
			return err
		}
		if c.Practice == nil {
			return errors.New("this course has no practice questions")
		}

		var reviewer *quiz.Reviewer
		if noReview, _ := cmd.Flags().GetBool("no-review"); !noReview {
			if p := rt.provider(ctx); p != nil {
				reviewer = quiz.NewReviewer(llm.WithRetry(p, rt.llmConfig().Retry))
			}
		}

		pr := &practiceRun{
			in:       bufio.NewReader(cmd.InOrStdin()),
			out:      cmd.OutOrStdout(),
			reviewer: reviewer,
			logger:   rt.logger,
			now:      time.Now,
		}
		return pr.run(ctx, c.Practice)
	},
}

// practiceRun asks one practice set on a line-oriented terminal.
type practiceRun struct {
	in       *bufio.Reader
	out      io.Writer
	reviewer *quiz.Reviewer
	logger   *zap.Logger
	now      func() time.Time
}

func (p *practiceRun) clock() time.Time {
	if p.now == nil {
		return time.Now()
	}
	return p.now()
}

// formatElapsed renders d as minutes and zero-padded seconds, e.g. 1:05.
func formatElapsed(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func (p *practiceRun) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *practiceRun) run(ctx context.Context, set *course.Practice) error {
	if len(set.MultipleChoice) > 0 {
		if err := p.multipleChoice(set.MultipleChoice); err != nil {
			return err
		}
	}
	if len(set.FillBlanks) > 0 {
		if err := p.fillBlanks(set.FillBlanks); err != nil {
			return err
		}
	}
	if len(set.ShortAnswer) > 0 {
		if err := p.shortAnswers(ctx, set.ShortAnswer); err != nil {
			return err
		}
	}
	return nil
}

func (p *practiceRun) multipleChoice(qs []course.ChoiceQuestion) error {
	fmt.Fprintln(p.out, "Multiple choice")
	start := p.clock()
	selected := make([]int, len(qs))
	for i, q := range qs {
		fmt.Fprintf(p.out, "\n%d. %s\n", i+1, q.Question)
		for j, o := range q.Options {
			fmt.Fprintf(p.out, "   %d) %s\n", j+1, o)
		}
		fmt.Fprint(p.out, "> ")
		line, err := p.readLine()
		if err != nil {
			return err
		}
		selected[i] = quiz.Unanswered
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(q.Options) {
			selected[i] = n - 1
		}
	}

	took := p.clock().Sub(start)

	g := quiz.GradeMultipleChoice(qs, selected)
	for i, q := range qs {
		if g.Correct[i] {
			continue
		}
		fmt.Fprintf(p.out, "%d. correct answer: %s\n", i+1, q.Options[q.CorrectAnswer])
		if q.Explanation != "" {
			fmt.Fprintf(p.out, "   %s\n", q.Explanation)
		}
	}
	fmt.Fprintf(p.out, "Score: %d/%d (%d%%)  Time: %s\n\n", g.Score, g.Total, g.Percentage, formatElapsed(took))
	return nil
}

func (p *practiceRun) fillBlanks(qs []course.FillBlankQuestion) error {
	fmt.Fprintln(p.out, "Fill in the blanks")
	start := p.clock()
	answers := make([]string, len(qs))
	for i, q := range qs {
		fmt.Fprintf(p.out, "\n%d. %s\n> ", i+1, q.Question)
		line, err := p.readLine()
		if err != nil {
			return err
		}
		answers[i] = line
	}

	took := p.clock().Sub(start)

	g := quiz.GradeFillBlanks(qs, answers)
	for i, q := range qs {
		if !g.Correct[i] {
			fmt.Fprintf(p.out, "%d. expected: %s\n", i+1, q.Answer)
		}
	}
	fmt.Fprintf(p.out, "Score: %d/%d (%d%%)  Time: %s\n\n", g.Score, g.Total, g.Percentage, formatElapsed(took))
	return nil
}

func (p *practiceRun) shortAnswers(ctx context.Context, qs []course.ShortAnswerQuestion) error {
	fmt.Fprintln(p.out, "Short answers")
	start := p.clock()
	answers := make([]string, len(qs))
	for i, q := range qs {
		fmt.Fprintf(p.out, "\n%d. %s\n> ", i+1, q.Question)
		line, err := p.readLine()
		if err != nil {
			return err
		}
		answers[i] = line
	}

	took := p.clock().Sub(start)

	g, scores := quiz.GradeShortAnswers(qs, answers)
	for i, q := range qs {
		fmt.Fprintf(p.out, "%d. %d/100", i+1, scores[i])
		var missing []string
		for j, hit := range quiz.MatchedKeyPoints(answers[i], q.KeyPoints) {
			if !hit {
				missing = append(missing, q.KeyPoints[j])
			}
		}
		if len(missing) > 0 {
			fmt.Fprintf(p.out, ", missing: %s", strings.Join(missing, ", "))
		}
		fmt.Fprintln(p.out)

		if p.reviewer == nil || answers[i] == "" {
			continue
		}
		rev, err := p.reviewer.Review(ctx, q, answers[i], scores[i])
		if err != nil {
			p.logger.Warn("short answer review failed", zap.String("question", q.ID), zap.Error(err))
			continue
		}
		fmt.Fprintf(p.out, "   %s\n", rev.Feedback)
	}
	fmt.Fprintf(p.out, "Score: %d%%  Time: %s\n", g.Percentage, formatElapsed(took))
	return nil
}

func init() {
	practiceCmd.Flags().Bool("no-review", false, "Skip AI feedback on short answers")
}
