package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "List or export notes",
}

var notesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, newest first",
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
		ns := sess.Notes()
		if len(ns) == 0 {
			fmt.Fprintln(out, "No notes yet.")
			return nil
		}
		rows := make([][]string, 0, len(ns))
		for _, n := range ns {
			rows = append(rows, []string{
				n.Timestamp.Local().Format("2006-01-02 15:04"),
				truncate(n.SectionTitle, 24),
				strconv.Itoa(n.TurnIndex + 1),
				n.Title,
			})
		}
		printTable(out, []string{"Saved", "Section", "Msg", "Title"}, rows)
		return nil
	},
}

var notesExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export notes as a paginated text document",
	Args:  cobra.MaximumNArgs(1),
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

		path := sess.ExportPath()
		if len(args) == 1 {
			path = args[0]
		}
		if err := sess.ExportNotes(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d notes to %s\n", len(sess.Notes()), path)
		return nil
	},
}

func init() {
	notesCmd.AddCommand(notesListCmd)
	notesCmd.AddCommand(notesExportCmd)
}
