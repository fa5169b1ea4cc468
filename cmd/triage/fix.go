package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/auditworks/triage/internal/fixes"
	"github.com/auditworks/triage/internal/githubcli"
)

var (
	fixPlanPath   string
	fixApply      bool
	fixAIReviewed bool
)

var fixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Plan and apply backlog fixes",
	Long: `Build a fix plan from a saved audit_results.json: duplicate closes,
conventional-commit title rewrites, taxonomy labels, and quality audit
comments on low-scoring issues.

The default run is a dry run. It writes the plan to fix_plan.yaml and
prints what would change without touching GitHub. Review the plan, then
re-run with --apply to execute it through the gh CLI.

With --ai-reviewed, only duplicate pairs confirmed by an AI review pass
(see 'triage audit --ai-review') are eligible for closing.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		green := color.New(color.FgGreen).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()

		var plan *fixes.Plan
		var err error
		if fixApply {
			plan, err = fixes.LoadPlan(fixPlanPath)
			if err != nil {
				fatal("failed to load plan (run 'triage fix' without --apply first?): %v", err)
			}
		} else {
			results := loadResults()
			plan = fixes.BuildPlan(results, fixAIReviewed)
			if err := fixes.SavePlan(plan, fixPlanPath); err != nil {
				fatal("failed to save plan: %v", err)
			}
			fmt.Printf("%s Plan written to %s\n", green("✓"), fixPlanPath)
		}

		if plan.IsEmpty() {
			fmt.Println("Nothing to fix: the backlog is clean.")
			return
		}

		client := githubcli.NewClient(githubcli.OSRunner{}, repo, logger)
		applier := fixes.NewApplier(client, logger)
		report := applier.Apply(ctx, plan, !fixApply)

		if fixApply {
			fmt.Printf("%s Applied: %d closed, %d edited, %d commented",
				green("✓"), report.Closed, report.Edited, report.Commented)
			if report.Errors > 0 {
				fmt.Printf(", %s", color.New(color.FgRed).Sprintf("%d errors", report.Errors))
			}
			fmt.Println()
		} else {
			fmt.Printf("%s %d closes and %d issue edits planned (%d actions logged)\n",
				yellow("dry run:"), len(plan.Closes), len(plan.Suggestions), report.Skipped)
			fmt.Printf("  Review %s, then re-run with --apply to execute.\n", fixPlanPath)
		}
	},
}

func init() {
	fixCmd.Flags().StringVar(&fixPlanPath, "plan", "fix_plan.yaml", "fix plan file")
	fixCmd.Flags().BoolVar(&fixApply, "apply", false, "execute a previously generated plan")
	fixCmd.Flags().BoolVar(&fixAIReviewed, "ai-reviewed", false, "only close duplicates confirmed by AI review")
	rootCmd.AddCommand(fixCmd)
}
