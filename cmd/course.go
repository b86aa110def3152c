package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/coursewalk/internal/course"
)

var courseCmd = &cobra.Command{
	Use:   "course",
	Short: "Work with course files",
}

var courseValidateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check course files against the course schema",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		failed := 0
		for _, path := range args {
			c, err := course.Load(path)
			if err != nil {
				failed++
				var verr *course.ValidationError
				if errors.As(err, &verr) {
					fmt.Fprintf(out, "✗ %s: %v\n", path, verr)
				} else {
					fmt.Fprintf(out, "✗ %s: %v\n", path, err)
				}
				continue
			}
			t := course.NewIndex(c).Totals()
			fmt.Fprintf(out, "✓ %s: %q, %d sections, %d subsections, %d messages, %d images, %d videos, %d quizzes\n",
				path, c.Config.Title, t.Sections, t.Subsections, t.Turns, t.Images, t.Videos, t.Quizzes)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d course files are invalid", failed, len(args))
		}
		return nil
	},
}

func init() {
	courseCmd.AddCommand(courseValidateCmd)
}
