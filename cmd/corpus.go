package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/drillsergeant/internal/corpus"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Inspect the local passage corpus",
}

var corpusListCmd = &cobra.Command{
	Use:   "list",
	Short: "List corpus entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := corpusReader(cmd)
		if err != nil {
			return err
		}
		results, err := r.Check(cmd.Context())
		if err != nil {
			return fmt.Errorf("read corpus %s: %w", r.Dir(), err)
		}

		out := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintf(out, "No entries in %s.\n", r.Dir())
			return nil
		}
		fmt.Fprintf(out, "%-28s  %-40s  %s\n", "File", "Title", "Questions")
		fmt.Fprintln(out, strings.Repeat("─", 80))
		for _, res := range results {
			title, n := res.Title, fmt.Sprint(res.Questions)
			if res.Err != nil {
				title, n = "(invalid)", "-"
			}
			fmt.Fprintf(out, "%-28s  %-40s  %s\n",
				truncate(filepath.Base(res.Path), 28), truncate(title, 40), n)
		}
		return nil
	},
}

var corpusCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate every corpus entry against the entry schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := corpusReader(cmd)
		if err != nil {
			return err
		}
		results, err := r.Check(cmd.Context())
		if err != nil {
			return fmt.Errorf("read corpus %s: %w", r.Dir(), err)
		}

		out := cmd.OutOrStdout()
		var bad int
		for _, res := range results {
			if res.Err != nil {
				bad++
				fmt.Fprintf(out, "✗ %s: %v\n", filepath.Base(res.Path), res.Err)
				continue
			}
			fmt.Fprintf(out, "✓ %s (%d questions)\n", filepath.Base(res.Path), res.Questions)
		}
		if bad > 0 {
			return fmt.Errorf("%d of %d entries invalid", bad, len(results))
		}
		fmt.Fprintf(out, "%d entries ok\n", len(results))
		return nil
	},
}

func corpusReader(cmd *cobra.Command) (*corpus.Reader, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.Corpus.Dir == "" {
		return nil, fmt.Errorf("no corpus directory configured (set --corpus or DRILL_CORPUS_DIR)")
	}
	return corpus.NewReader(cfg.Corpus.Dir), nil
}

func init() {
	corpusCmd.AddCommand(corpusListCmd)
	corpusCmd.AddCommand(corpusCheckCmd)
}
