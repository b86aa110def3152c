package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/coursewalk/internal/config"
	"github.com/abhisek/coursewalk/internal/llm"
	"github.com/abhisek/coursewalk/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded AI requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent AI requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openEventStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No AI requests recorded.")
			return nil
		}

		rows := make([][]string, 0, len(events))
		for _, e := range events {
			status := "ok"
			if !e.Success {
				status = "failed"
			}
			rows = append(rows, []string{
				strconv.Itoa(e.ID),
				e.Timestamp.Local().Format(timeLayout),
				e.Purpose,
				truncate(e.Model, 28),
				strconv.Itoa(e.InputTokens),
				strconv.Itoa(e.OutputTokens),
				strconv.FormatInt(e.LatencyMs, 10),
				status,
			})
		}
		printTable(out, []string{"ID", "Time", "Purpose", "Model", "In", "Out", "Ms", "Status"}, rows)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and reply of one AI request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("request ID must be a number, got %q", args[0])
		}

		s, err := openEventStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return err
		}
		if e == nil {
			return fmt.Errorf("no AI request with ID %d", id)
		}

		out := cmd.OutOrStdout()
		fields := [][2]string{
			{"Time", e.Timestamp.Local().Format(timeLayout)},
			{"Provider", e.Provider},
			{"Model", e.Model},
			{"Purpose", e.Purpose},
			{"Tokens", fmt.Sprintf("%d in, %d out", e.InputTokens, e.OutputTokens)},
			{"Latency", fmt.Sprintf("%d ms", e.LatencyMs)},
		}
		if e.ErrorMessage != "" {
			fields = append(fields, [2]string{"Error", e.ErrorMessage})
		}
		fmt.Fprintf(out, "Request %d\n", e.ID)
		for _, f := range fields {
			fmt.Fprintf(out, "  %-9s %s\n", f[0]+":", f[1])
		}
		section(out, "Prompt", e.RequestBody)
		section(out, "Reply", e.ResponseBody)
		return nil
	},
}

func section(w io.Writer, title, body string) {
	if strings.TrimSpace(body) == "" {
		body = "(empty)"
	}
	fmt.Fprintf(w, "\n%s\n%s\n%s\n", title, strings.Repeat("─", len(title)), strings.TrimRight(body, "\n"))
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize AI token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openEventStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(byPurpose) == 0 {
			fmt.Fprintln(out, "No AI requests recorded.")
			return nil
		}

		var total store.LLMUsage
		rows := make([][]string, 0, len(byPurpose)+1)
		for _, u := range byPurpose {
			rows = append(rows, usageRow(u.Key, u))
			total.Calls += u.Calls
			total.InputTokens += u.InputTokens
			total.OutputTokens += u.OutputTokens
		}
		rows = append(rows, usageRow("total", total))
		printTable(out, []string{"Purpose", "Calls", "Input", "Output", "Avg ms"}, rows)

		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return err
		}

		var sum float64
		var unpriced []string
		rows = make([][]string, 0, len(byModel)+1)
		for _, u := range byModel {
			price := "?"
			if c := llm.LookupCost(u.Key); c != nil {
				usd := c.Cost(u.InputTokens, u.OutputTokens)
				sum += usd
				price = formatCost(usd)
			} else {
				unpriced = append(unpriced, u.Key)
			}
			rows = append(rows, []string{truncate(u.Key, 32), strconv.Itoa(u.Calls), price})
		}
		rows = append(rows, []string{"total", "", formatCost(sum)})
		fmt.Fprintln(out)
		printTable(out, []string{"Model", "Calls", "Est. USD"}, rows)
		if len(unpriced) > 0 {
			fmt.Fprintf(out, "No price known for %s; the total leaves them out.\n", strings.Join(unpriced, ", "))
		}
		return nil
	},
}

func usageRow(label string, u store.LLMUsage) []string {
	avg := ""
	if u.AvgLatencyMs > 0 {
		avg = strconv.FormatInt(u.AvgLatencyMs, 10)
	}
	return []string{label, strconv.Itoa(u.Calls), strconv.Itoa(u.InputTokens), strconv.Itoa(u.OutputTokens), avg}
}

// openEventStore opens the database without loading a course; the request
// log does not depend on one.
func openEventStore(cmd *cobra.Command) (*store.Store, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cmd, cfg.DB)
	if err != nil {
		return nil, err
	}
	return store.Open(dbPath)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func formatCost(usd float64) string {
	if usd > 0 && usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Show at most this many requests")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show one purpose: qa or practice-review")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
