package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/auditworks/triage/internal/audit"
	"github.com/auditworks/triage/internal/roadmap"
)

var roadmapPath string

var roadmapCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Reconcile the roadmap document against GitHub reality",
	Long: `Parse the progress claims out of a ROADMAP.md, compare them to the
actual issue state, and write ROADMAP_AUDIT.md with the drift analysis:
overall progress drift, per-milestone sync status, and issues referenced
by the roadmap but missing from GitHub (and vice versa).`,
	Run: func(cmd *cobra.Command, args []string) {
		content, err := os.ReadFile(roadmapPath)
		if err != nil {
			fatal("failed to read roadmap: %v", err)
		}

		issues, err := audit.LoadIssues(inputPath)
		if err != nil {
			fatal("failed to load issues (run 'triage fetch' first?): %v", err)
		}

		claims := roadmap.ParseClaims(string(content))
		rec := roadmap.Reconcile(claims, issues)

		outPath := filepath.Join(outputDir, "ROADMAP_AUDIT.md")
		if err := os.WriteFile(outPath, []byte(rec.Render()), 0o644); err != nil {
			fatal("failed to write %s: %v", outPath, err)
		}

		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()

		status := green("in sync")
		switch rec.Status {
		case roadmap.DriftCritical:
			status = red("critical drift")
		case roadmap.DriftWarning:
			status = yellow("drifting")
		}
		fmt.Printf("%s %s (drift %+.1f%%, %d orphans, %d phantoms)\n",
			green("✓"), status, rec.DriftPercent, len(rec.Orphans), len(rec.Phantoms))
		fmt.Printf("  Report written to %s\n", outPath)
	},
}

func init() {
	roadmapCmd.Flags().StringVar(&roadmapPath, "roadmap", "ROADMAP.md", "roadmap document to audit")
	rootCmd.AddCommand(roadmapCmd)
}
