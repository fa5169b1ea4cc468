package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/auditworks/triage/internal/audit"
	"github.com/auditworks/triage/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate the markdown audit reports",
	Long: `Render the four audit reports from a saved audit_results.json:

  COMPLIANCE_REPORT.md   scorecard with top/bottom issues
  RECOMMENDATIONS.md     concrete cleanup actions
  DASHBOARD.md           ASCII scorecard and distributions
  DEPENDENCY_MATRIX.md   dependency graph and blockers`,
	Run: func(cmd *cobra.Command, args []string) {
		results := loadResults()

		files := map[string]string{
			"COMPLIANCE_REPORT.md": report.Compliance(results),
			"RECOMMENDATIONS.md":   report.Recommendations(results),
			"DASHBOARD.md":         report.Dashboard(results),
			"DEPENDENCY_MATRIX.md": report.DependencyMatrix(results),
		}

		green := color.New(color.FgGreen).SprintFunc()
		for name, content := range files {
			path := filepath.Join(outputDir, name)
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				fatal("failed to write %s: %v", path, err)
			}
			fmt.Printf("%s %s\n", green("✓"), path)
		}
	},
}

// loadResults reads audit_results.json from the output directory.
func loadResults() *audit.Results {
	path := filepath.Join(outputDir, "audit_results.json")
	results, err := audit.Load(path)
	if err != nil {
		fatal("failed to load %s (run 'triage audit' first?): %v", path, err)
	}
	return results
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
