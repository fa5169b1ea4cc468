package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/auditworks/triage/internal/report"
)

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Generate the objective backlog execution order",
	Long: `Render BACKLOG_ORDER.md and backlog_order.csv from a saved
audit_results.json. Open issues are ranked by the combined WSJF and
RICE score; the CSV is import-ready for spreadsheets and project
boards.`,
	Run: func(cmd *cobra.Command, args []string) {
		results := loadResults()
		green := color.New(color.FgGreen).SprintFunc()

		mdPath := filepath.Join(outputDir, "BACKLOG_ORDER.md")
		if err := os.WriteFile(mdPath, []byte(report.BacklogOrder(results)), 0o644); err != nil {
			fatal("failed to write %s: %v", mdPath, err)
		}
		fmt.Printf("%s %s\n", green("✓"), mdPath)

		csvPath := filepath.Join(outputDir, "backlog_order.csv")
		f, err := os.Create(csvPath)
		if err != nil {
			fatal("failed to create %s: %v", csvPath, err)
		}
		defer f.Close()
		if err := report.BacklogOrderCSV(f, results); err != nil {
			fatal("failed to write %s: %v", csvPath, err)
		}
		fmt.Printf("%s %s\n", green("✓"), csvPath)
	},
}

func init() {
	rootCmd.AddCommand(orderCmd)
}
