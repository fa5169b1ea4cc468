// Command triage audits a GitHub issue backlog.
//
// It fetches issues through the gh CLI (or reads a JSON export), scores
// them against a quality rubric, detects duplicates, prioritizes open
// work, and renders markdown reports plus an objective execution order.
// See the subcommand help for the individual stages.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile   string
	inputPath string
	repo      string
	outputDir string
	noColor   bool
	verbose   bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "triage",
	Short: "Audit and prioritize a GitHub issue backlog",
	Long: `triage runs an objective audit over a GitHub issue backlog:
rubric scoring, duplicate detection, dependency mapping, WSJF/RICE
prioritization, and markdown report generation.

Issues come from the gh CLI (run 'triage fetch' first) or from any JSON
export with the gh field layout.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
		initLogger()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default .triage.yaml)")
	rootCmd.PersistentFlags().StringVarP(&inputPath, "input", "i", "issues.json", "issue export file")
	rootCmd.PersistentFlags().StringVarP(&repo, "repo", "R", "", "GitHub repository (owner/name), defaults to the current directory's repo")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output-dir", "o", ".", "directory for generated reports")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	for _, flag := range []string{"input", "repo", "output-dir"} {
		_ = viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag))
	}
}

// initConfig loads .triage.yaml and TRIAGE_* environment overrides.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".triage")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	viper.SetEnvPrefix("TRIAGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// A missing config file is fine; env and flags still apply.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Warning: failed to read config: %v\n", err)
		}
	}

	// Flags win over config and env values only when set explicitly;
	// pull the effective values back out of viper.
	if v := viper.GetString("input"); v != "" {
		inputPath = v
	}
	if v := viper.GetString("repo"); v != "" {
		repo = v
	}
	if v := viper.GetString("output-dir"); v != "" {
		outputDir = v
	}
}

// initLogger builds the process logger. All logging goes to stderr so
// stdout stays clean for report output and shell pipelines.
func initLogger() {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	var err error
	logger, err = cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
