package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/drillsergeant/internal/llm"
	"github.com/abhisek/drillsergeant/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the LLM calls made by drills",
}

var llmLogCmd = &cobra.Command{
	Use:     "log",
	Aliases: []string{"list"},
	Short:   "Show recent LLM calls, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		failedOnly, _ := cmd.Flags().GetBool("failed")
		since, _ := cmd.Flags().GetDuration("since")

		opts := store.QueryOpts{Limit: limit, Purpose: purpose}
		if failedOnly {
			opts.Limit = 0
		}
		if since > 0 {
			opts.From = time.Now().Add(-since)
		}

		return withEventRepo(cmd, func(ctx context.Context, repo store.EventRepo) error {
			events, err := repo.QueryLLMEvents(ctx, opts)
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			if failedOnly {
				kept := events[:0]
				for _, e := range events {
					if !e.Success {
						kept = append(kept, e)
					}
				}
				events = kept
				if limit > 0 && len(events) > limit {
					events = events[:limit]
				}
			}
			renderEventLog(cmd.OutOrStdout(), events)
			return nil
		})
	},
}

var llmShowCmd = &cobra.Command{
	Use:     "show <id>",
	Aliases: []string{"view"},
	Short:   "Show the prompt and reply of one LLM call",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid event id %q", args[0])
		}
		return withEventRepo(cmd, func(ctx context.Context, repo store.EventRepo) error {
			e, err := repo.GetLLMEvent(ctx, id)
			if err != nil {
				return fmt.Errorf("get event: %w", err)
			}
			if e == nil {
				return fmt.Errorf("event %d not found", id)
			}
			renderEvent(cmd.OutOrStdout(), e)
			return nil
		})
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show failure rates, token usage and estimated cost per drill stage",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEventRepo(cmd, func(ctx context.Context, repo store.EventRepo) error {
			byPurpose, err := repo.LLMUsageByPurpose(ctx)
			if err != nil {
				return fmt.Errorf("query usage: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(byPurpose) == 0 {
				fmt.Fprintln(out, "No LLM calls recorded yet.")
				return nil
			}
			renderPurposeStats(out, byPurpose)

			byModel, err := repo.LLMUsageByModel(ctx)
			if err != nil {
				return fmt.Errorf("query model usage: %w", err)
			}
			renderModelCost(out, byModel)
			return nil
		})
	},
}

func withEventRepo(cmd *cobra.Command, fn func(ctx context.Context, repo store.EventRepo) error) error {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, s.EventRepo())
}

// stageOf names the drill stage a purpose label belongs to.
func stageOf(purpose string) string {
	switch purpose {
	case llm.PurposeContentGen:
		return "passage"
	case llm.PurposeDiagnosis:
		return "diagnosis"
	case llm.PurposeSummary:
		return "summary"
	}
	return purpose
}

// fallbackOf describes what the learner saw when a call for purpose failed.
func fallbackOf(purpose string) string {
	switch purpose {
	case llm.PurposeContentGen:
		return "session not created unless the corpus had a passage"
	case llm.PurposeDiagnosis:
		return "degraded diagnosis (Unknown trap, generic hint)"
	case llm.PurposeSummary:
		return "fallback summary (Session Complete)"
	}
	return "-"
}

func renderEventLog(w io.Writer, events []store.LLMEvent) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No LLM calls found.")
		return
	}
	fmt.Fprintf(w, "%-5s  %-14s  %-10s  %-24s  %-13s  %6s  %s\n",
		"ID", "When", "Stage", "Model", "Tokens", "Ms", "Result")
	fmt.Fprintln(w, strings.Repeat("─", 96))
	for _, e := range events {
		result := "ok"
		if !e.Success {
			result = "failed"
			if e.ErrorMessage != "" {
				result += ": " + truncate(e.ErrorMessage, 30)
			}
		}
		fmt.Fprintf(w, "%-5d  %-14s  %-10s  %-24s  %-13s  %6d  %s\n",
			e.ID,
			e.Timestamp.Local().Format("Jan 02 15:04"),
			stageOf(e.Purpose),
			truncate(e.Model, 24),
			fmt.Sprintf("%d→%d", e.InputTokens, e.OutputTokens),
			e.LatencyMs,
			result,
		)
	}
}

func renderEvent(w io.Writer, e *store.LLMEvent) {
	fmt.Fprintf(w, "Call %d  %s  %s via %s\n",
		e.ID, e.Timestamp.Local().Format(time.DateTime), e.Model, e.Provider)
	fmt.Fprintf(w, "Stage:    %s (%s)\n", stageOf(e.Purpose), e.Purpose)
	fmt.Fprintf(w, "Tokens:   %d in, %d out, %dms\n", e.InputTokens, e.OutputTokens, e.LatencyMs)
	if e.Success {
		fmt.Fprintln(w, "Result:   ok")
	} else {
		fmt.Fprintf(w, "Result:   failed, learner got %s\n", fallbackOf(e.Purpose))
		if e.ErrorMessage != "" {
			fmt.Fprintf(w, "Error:    %s\n", e.ErrorMessage)
		}
	}
	if e.Purpose == llm.PurposeDiagnosis {
		var reply struct {
			TrapType string `json:"trap_type"`
		}
		if json.Unmarshal([]byte(e.ResponseBody), &reply) == nil && reply.TrapType != "" {
			fmt.Fprintf(w, "Trap:     %s\n", reply.TrapType)
		}
	}

	section(w, "Prompt", e.RequestBody)
	body := e.ResponseBody
	var pretty bytes.Buffer
	if json.Indent(&pretty, []byte(body), "", "  ") == nil {
		body = pretty.String()
	}
	section(w, "Reply", body)
}

func section(w io.Writer, title, body string) {
	fmt.Fprintf(w, "\n── %s %s\n", title, strings.Repeat("─", 56-len(title)))
	if body == "" {
		body = "(not captured)"
	}
	fmt.Fprintln(w, body)
}

func renderPurposeStats(w io.Writer, stats []store.PurposeUsage) {
	fmt.Fprintln(w, "Drill stages")
	fmt.Fprintln(w, strings.Repeat("─", 72))
	fmt.Fprintf(w, "%-10s  %6s  %6s  %6s  %10s  %10s  %8s\n",
		"Stage", "Calls", "Failed", "Rate", "Input", "Output", "Avg Ms")
	fmt.Fprintln(w, strings.Repeat("─", 72))

	var calls, failed, in, out int
	for _, st := range stats {
		fmt.Fprintf(w, "%-10s  %6d  %6d  %6s  %10d  %10d  %8d\n",
			stageOf(st.Purpose), st.Calls, st.Failures, failureRate(st.Failures, st.Calls),
			st.InputTokens, st.OutputTokens, st.AvgLatencyMs)
		calls += st.Calls
		failed += st.Failures
		in += st.InputTokens
		out += st.OutputTokens
	}
	fmt.Fprintln(w, strings.Repeat("─", 72))
	fmt.Fprintf(w, "%-10s  %6d  %6d  %6s  %10d  %10d\n",
		"TOTAL", calls, failed, failureRate(failed, calls), in, out)

	if failed == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Learner impact")
	for _, st := range stats {
		if st.Failures > 0 {
			fmt.Fprintf(w, "  %-10s  %d× %s\n", stageOf(st.Purpose), st.Failures, fallbackOf(st.Purpose))
		}
	}
}

func renderModelCost(w io.Writer, usage []store.ModelUsage) {
	if len(usage) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Estimated cost (USD)")
	fmt.Fprintln(w, strings.Repeat("─", 72))

	var total float64
	var unpriced []string
	for _, mu := range usage {
		cost := "?"
		if mc := llm.LookupCost(mu.Model); mc != nil {
			c := mc.Cost(mu.InputTokens, mu.OutputTokens)
			total += c
			cost = formatCost(c)
		} else {
			unpriced = append(unpriced, mu.Model)
		}
		fmt.Fprintf(w, "%-32s  %6d calls  %10s\n", truncate(mu.Model, 32), mu.Calls, cost)
	}
	fmt.Fprintln(w, strings.Repeat("─", 72))
	label := "TOTAL"
	if len(unpriced) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(w, "%-32s  %12s  %10s\n", label, "", formatCost(total))
	if len(unpriced) > 0 {
		fmt.Fprintf(w, "\nPricing unavailable for: %s\n", strings.Join(unpriced, ", "))
	}
}

func failureRate(failed, calls int) string {
	if calls == 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", 100*float64(failed)/float64(calls))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmLogCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmLogCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (content-gen, mistake-diagnosis, coach-summary)")
	llmLogCmd.Flags().Bool("failed", false, "Show only failed calls")
	llmLogCmd.Flags().Duration("since", 0, "Only calls newer than this (e.g. 1h)")

	llmCmd.AddCommand(llmLogCmd)
	llmCmd.AddCommand(llmShowCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
