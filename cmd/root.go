// Package cmd implements the gitsafe CLI commands using Cobra.
package cmd

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	format  string
)

var rootCmd = &cobra.Command{
	Use:   "gitsafe",
	Short: "Pre-commit secret scanner",
	Long: `gitsafe scans staged changes, or a CI pull request's diff, for
hardcoded secrets — API keys, private keys, passwords, tokens, and
high-entropy strings — before they ever reach a remote branch.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns any error.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default: .gitsafe.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "", "output format override (terminal|json|sarif)")
}

func setupLogging() {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: false,
	})
	log.SetDefault(logger)
}
