package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/coursewalk/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning progress for the course",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		sess, err := rt.openSession(cmd.Context(), false)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(sess.Summary())
		}

		r := sess.Report()
		st := sess.State()
		fmt.Fprintln(out, sess.Course().Config.Title)
		fmt.Fprintln(out, strings.Repeat("─", 48))
		fmt.Fprintf(out, "Position     message %d of %d\n", st.Index+1, sess.Index().Len())
		rows := []struct {
			label string
			ratio stats.Ratio
		}{
			{"Messages", r.Messages},
			{"Sections", r.Sections},
			{"Subsections", r.Subsections},
			{"Images", r.Images},
			{"Videos", r.Videos},
			{"Quizzes", r.Quizzes},
		}
		for _, row := range rows {
			fmt.Fprintf(out, "%-12s %4d / %-4d %3d%%\n", row.label, row.ratio.Done, row.ratio.Total, row.ratio.Percent)
		}
		if r.Attempts > 0 {
			fmt.Fprintf(out, "Accuracy     %d of %d correct (%d%%)\n", r.Correct, r.Attempts, r.Accuracy)
		}
		fmt.Fprintf(out, "Notes        %d\n", len(sess.Notes()))
		fmt.Fprintf(out, "Questions    %d\n", len(sess.History()))
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("json", false, "Print the stored progress summary as JSON")
}
