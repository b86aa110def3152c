package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/coursewalk/internal/notes"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset learner progress for the course",
	Long: "Reset clears the reading position and statistics. Notes and the question " +
		"history are kept unless --notes or --history is given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		withNotes, _ := cmd.Flags().GetBool("notes")
		withHistory, _ := cmd.Flags().GetBool("history")
		yes, _ := cmd.Flags().GetBool("yes")

		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		sess, err := rt.openSession(ctx, false)
		if err != nil {
			return err
		}

		confirm := notes.Yes
		if !yes {
			confirm = prompter(cmd.InOrStdin(), cmd.OutOrStdout())
		}
		out := cmd.OutOrStdout()

		if !confirm(fmt.Sprintf("Reset progress for %q?", sess.Course().Config.Title)) {
			fmt.Fprintln(out, "Nothing changed.")
			return nil
		}
		if err := sess.ResetProgress(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "Progress reset.")

		if withNotes {
			if sess.ClearNotes(ctx, confirm) {
				fmt.Fprintln(out, "Notes deleted.")
			}
		}
		if withHistory {
			if err := sess.ClearHistory(ctx); err != nil {
				return err
			}
			fmt.Fprintln(out, "Question history deleted.")
		}
		return nil
	},
}

// prompter returns a notes.Confirm that asks on out and reads y/N from in.
func prompter(in io.Reader, out io.Writer) notes.Confirm {
	r := bufio.NewReader(in)
	return func(prompt string) bool {
		fmt.Fprintf(out, "%s [y/N] ", prompt)
		line, _ := r.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	}
}

func init() {
	resetCmd.Flags().Bool("notes", false, "Also delete all notes")
	resetCmd.Flags().Bool("history", false, "Also delete the question history")
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
