package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Ronak-jain-afk/GitSafe/internal/config"
)

var auditDiffFile string

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Scan an arbitrary diff file as a one-shot audit",
	Long: `audit runs the same scan pipeline as 'gitsafe scan' against a
unified diff file given with --diff, rather than the currently staged
changes. It always applies full redaction, as if running in CI,
regardless of the ci.full_redaction setting — an audit's output is
likely to be shared outside the terminal it ran in.`,
	Args: cobra.NoArgs,
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().StringVar(&auditDiffFile, "diff", "", "path to a unified diff file to scan (required)")
	auditCmd.MarkFlagRequired("diff")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	repoRoot, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("audit: %w", err)
	}

	cfg, err := config.Load(repoRoot, cfgFile)
	if err != nil {
		return fmt.Errorf("audit: %w", err)
	}
	cfg.CI.FullRedaction = true

	data, err := os.ReadFile(auditDiffFile)
	if err != nil {
		return fmt.Errorf("audit: reading diff file: %w", err)
	}

	result, err := runScanPipeline(ctx, string(data), cfg, repoRoot)
	if err != nil {
		return fmt.Errorf("audit: %w", err)
	}

	if err := writeScanResult(result, cfg); err != nil {
		return fmt.Errorf("audit: %w", err)
	}

	if result.Blocked && !cfg.CI.ExitZero {
		os.Exit(1)
	}
	return nil
}
