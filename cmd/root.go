package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/coursewalk/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "coursewalk",
	Short: "Read instructional dialogues in the terminal",
	Long: "Coursewalk walks a learner through a course written as a teacher-student dialogue, " +
		"one message at a time, with media, quizzes, notes and an AI tutor.\n\n" +
		"Run without a subcommand to open the course.",
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runApp(cmd)
	},
}

// Execute runs the command line.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("course", "c", "", "course file to open (overrides COURSEWALK_COURSE)")
	flags.String("db", "", "SQLite database file (overrides COURSEWALK_DB)")
	flags.String("config", "", "config file (default $XDG_CONFIG_HOME/coursewalk/config.yaml)")
	flags.Bool("debug", false, "log at debug level")

	rootCmd.AddGroup(
		&cobra.Group{ID: "learn", Title: "Learning:"},
		&cobra.Group{ID: "admin", Title: "Housekeeping:"},
	)
	for _, c := range []*cobra.Command{statsCmd, notesCmd, askCmd, practiceCmd} {
		c.GroupID = "learn"
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{courseCmd, resetCmd, llmCmd, versionCmd} {
		c.GroupID = "admin"
		rootCmd.AddCommand(c)
	}
}

// resolveDBPath picks the --db flag, then the configured path, then the
// default location.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	p, _ := cmd.Flags().GetString("db")
	if p == "" {
		p = configured
	}
	if p == "" {
		return store.DefaultDBPath()
	}
	return p, store.EnsureDir(p)
}
