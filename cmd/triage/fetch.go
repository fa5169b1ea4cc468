package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/auditworks/triage/internal/githubcli"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Export issues from GitHub to a JSON file",
	Long: `Fetch every issue (open and closed) through the gh CLI and write
them to the input file used by the other subcommands.

Requires gh to be installed and authenticated.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		client := githubcli.NewClient(githubcli.OSRunner{}, repo, logger)

		issues, err := client.ListIssues(ctx)
		if err != nil {
			fatal("failed to fetch issues: %v", err)
		}

		data, err := json.MarshalIndent(issues, "", "  ")
		if err != nil {
			fatal("failed to encode issues: %v", err)
		}
		if err := os.WriteFile(inputPath, data, 0o644); err != nil {
			fatal("failed to write %s: %v", inputPath, err)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Exported %d issues to %s\n", green("✓"), len(issues), inputPath)
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}
