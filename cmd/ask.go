package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/coursewalk/internal/session"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the AI tutor about a message",
	Long: "Ask sends the question together with the preceding messages of the course. " +
		"Without --turn the learner's current message is used.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		turn, _ := cmd.Flags().GetInt("turn")

		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		sess, err := rt.openSession(ctx, true)
		if err != nil {
			return err
		}
		if !sess.CanAsk() {
			return fmt.Errorf("%w; set COURSEWALK_LLM_PROVIDER and an API key", session.ErrNoAsker)
		}

		target := sess.State().Index
		if turn > 0 {
			target = turn - 1
		}

		r, err := sess.AskAbout(ctx, strings.Join(args, " "), target)
		if errors.Is(err, session.ErrNotFound) {
			return fmt.Errorf("message %d does not exist (the course has %d)", turn, sess.Index().Len())
		}
		if err != nil {
			return err
		}
		if r.IsError {
			return fmt.Errorf("no answer: %s", r.Answer)
		}
		fmt.Fprintln(cmd.OutOrStdout(), r.Answer)
		return nil
	},
}

func init() {
	askCmd.Flags().IntP("turn", "t", 0, "Message number to ask about (1-based)")
}
