package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/auditworks/triage/internal/ai"
	"github.com/auditworks/triage/internal/audit"
	"github.com/auditworks/triage/internal/dedup"
	"github.com/auditworks/triage/internal/history"
)

var (
	auditUseAI    bool
	auditHistory  bool
	historyDBPath string
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run the backlog audit",
	Long: `Score every issue against the quality rubric, detect duplicates,
build the dependency graph, and prioritize open work. Results are written
to audit_results.json in the output directory and summarized on stdout.

With --ai-review, high-confidence duplicate pairs are confirmed through
the Anthropic API before they can reach a fix plan (needs
ANTHROPIC_API_KEY). With --history, the run summary is appended to the
local history database and the recent trend is printed.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		issues, err := audit.LoadIssues(inputPath)
		if err != nil {
			fatal("failed to load issues (run 'triage fetch' first?): %v", err)
		}

		var reviewer dedup.Reviewer
		if auditUseAI {
			client, err := ai.NewClient(&ai.Config{}, logger)
			if err != nil {
				fatal("AI review requested but unavailable: %v", err)
			}
			reviewer = client
		}

		auditor, err := audit.New(audit.DefaultConfig(), reviewer, logger)
		if err != nil {
			fatal("failed to initialize auditor: %v", err)
		}

		results, err := auditor.Run(ctx, issues)
		if err != nil {
			fatal("audit failed: %v", err)
		}

		resultsPath := filepath.Join(outputDir, "audit_results.json")
		if err := results.Save(resultsPath); err != nil {
			fatal("failed to save results: %v", err)
		}

		printSummary(results, resultsPath)

		if auditHistory {
			recordHistory(ctx, results)
		}
	},
}

func printSummary(results *audit.Results, resultsPath string) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Printf("\n%s\n\n", cyan("=== Backlog Audit ==="))
	fmt.Printf("  Run:           %s\n", results.Metadata.RunID)
	fmt.Printf("  Issues:        %d (%s)\n", results.Summary.TotalIssues, results.Metadata.IssueRange)

	scoreColor := green
	switch {
	case results.Summary.AverageScore < 60:
		scoreColor = red
	case results.Summary.AverageScore < 80:
		scoreColor = yellow
	}
	fmt.Printf("  Average score: %s\n", scoreColor(fmt.Sprintf("%.1f%%", results.Summary.AverageScore)))
	fmt.Printf("  Compliant:     %s  Non-compliant: %s\n",
		green(results.Summary.Compliant80Plus), red(results.Summary.NonCompliant))
	fmt.Printf("  Duplicates:    %d\n", len(results.Duplicates))
	fmt.Printf("\n  Results written to %s\n", resultsPath)
}

func recordHistory(ctx context.Context, results *audit.Results) {
	store, err := history.Open(historyDBPath)
	if err != nil {
		fatal("failed to open history db: %v", err)
	}
	defer store.Close()

	if err := store.Record(ctx, results); err != nil {
		fatal("failed to record run: %v", err)
	}

	entries, err := store.Recent(ctx, 5)
	if err != nil {
		fatal("failed to read history: %v", err)
	}

	fmt.Printf("\n  Recent runs:\n")
	for _, e := range entries {
		fmt.Printf("    %s  %s  avg %.1f%%  (%d issues)\n",
			e.AuditDate.Format("2006-01-02"), shortID(e.RunID), e.AvgScore, e.Total)
	}
	if trend := history.Trend(entries); trend != 0 {
		fmt.Printf("  Trend: %+.1f%% over %d runs\n", trend, len(entries))
	}
}

// shortID abbreviates a run id for display. History rows may predate
// this binary, so the id is not guaranteed to be a uuid.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	auditCmd.Flags().BoolVar(&auditUseAI, "ai-review", false, "confirm duplicate pairs with the Anthropic API")
	auditCmd.Flags().BoolVar(&auditHistory, "history", false, "record this run and print the recent trend")
	auditCmd.Flags().StringVar(&historyDBPath, "history-db", "triage_history.db", "history database path")
	rootCmd.AddCommand(auditCmd)
}
