package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abhisek/langmentor/internal/llm"
	"github.com/abhisek/langmentor/internal/store"
)

const timeLayout = "2006-01-02 15:04"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded LLM requests and usage",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		return writeEventTable(cmd.OutOrStdout(), events)
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and reply captured for one LLM event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("event id must be a number, got %q", args[0])
		}

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("no LLM event with id %d", id)
		}
		writeEventDetail(cmd.OutOrStdout(), *e)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage per purpose and estimated cost per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		repo := s.EventRepo()
		byPurpose, err := repo.LLMUsageByPurpose(cmd.Context())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		byModel, err := repo.LLMUsageByModel(cmd.Context())
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		return writeUsage(cmd.OutOrStdout(), byPurpose, byModel)
	},
}

func writeEventTable(w io.Writer, events []store.LLMRequestEventRecord) error {
	if len(events) == 0 {
		fmt.Fprintln(w, "No LLM events recorded.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHEN\tPURPOSE\tMODEL\tTOKENS\tLATENCY\tRESULT")
	for _, e := range events {
		result := "ok"
		if !e.Success {
			result = "failed"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d/%d\t%dms\t%s\n",
			e.ID, e.Timestamp.Local().Format(timeLayout), e.Purpose, e.Model,
			e.InputTokens, e.OutputTokens, e.LatencyMs, result)
	}
	return tw.Flush()
}

func writeEventDetail(w io.Writer, e store.LLMRequestEventRecord) {
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(w, "%s %d (%s)\n", bold("Event"), e.ID, e.Timestamp.Local().Format(timeLayout))
	fmt.Fprintf(w, "  %s/%s for %s\n", e.Provider, e.Model, e.Purpose)
	fmt.Fprintf(w, "  %d input + %d output tokens in %dms\n", e.InputTokens, e.OutputTokens, e.LatencyMs)
	if !e.Success {
		fmt.Fprintf(w, "  %s %s\n", color.RedString("failed:"), e.ErrorMessage)
	}

	for _, part := range []struct{ title, body string }{
		{"Prompt", e.RequestBody},
		{"Reply", e.ResponseBody},
	} {
		fmt.Fprintf(w, "\n%s\n", bold("== "+part.title+" =="))
		if part.body == "" {
			fmt.Fprintln(w, color.New(color.Faint).Sprint("(empty)"))
			continue
		}
		fmt.Fprintln(w, part.body)
	}
}

func writeUsage(w io.Writer, byPurpose []store.LLMUsageStats, byModel []store.LLMModelUsage) error {
	if len(byPurpose) == 0 {
		fmt.Fprintln(w, "No LLM usage recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "PURPOSE\tCALLS\tINPUT\tOUTPUT\tAVG MS\t")
	var calls, in, out int
	for _, st := range byPurpose {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t\n", st.Purpose, st.Calls, st.InputTokens, st.OutputTokens, st.AvgLatencyMs)
		calls += st.Calls
		in += st.InputTokens
		out += st.OutputTokens
	}
	fmt.Fprintf(tw, "all\t%d\t%d\t%d\t\t\n", calls, in, out)
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(byModel) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "MODEL\tCALLS\tCOST (USD)\t")
	usage := make(map[string][2]int, len(byModel))
	for _, m := range byModel {
		usage[m.Model] = [2]int{m.InputTokens, m.OutputTokens}
		cost := "n/a"
		if c := llm.LookupCost(m.Model); c != nil {
			cost = dollars(c.Cost(m.InputTokens, m.OutputTokens))
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t\n", m.Model, m.Calls, cost)
	}
	total, unpriced := llm.EstimateCost(usage)
	fmt.Fprintf(tw, "estimated total\t\t%s\t\n", dollars(total))
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(unpriced) > 0 {
		fmt.Fprintf(w, "No pricing for %s; the total leaves them out.\n", strings.Join(unpriced, ", "))
	}
	return nil
}

func dollars(usd float64) string {
	if usd > 0 && usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show events for this purpose (quiz-gen, tip, proficiency)")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
