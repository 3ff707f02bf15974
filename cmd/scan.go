package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Ronak-jain-afk/GitSafe/internal/config"
	"github.com/Ronak-jain-afk/GitSafe/internal/model"
	"github.com/Ronak-jain-afk/GitSafe/internal/report"
	"github.com/Ronak-jain-afk/GitSafe/internal/rules"
	"github.com/Ronak-jain-afk/GitSafe/internal/scanengine"
	"github.com/Ronak-jain-afk/GitSafe/internal/suppress"
	"github.com/Ronak-jain-afk/GitSafe/internal/vcsadapter"
)

var (
	diffFile     string
	exitZeroFlag bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan staged changes for secrets",
	Long: `scan parses a unified diff and matches it against gitsafe's rule
set. With no flags, it scans currently staged changes (git diff
--cached); pass --diff to scan a diff file directly instead.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&diffFile, "diff", "", "path to a unified diff file to scan, instead of staged changes")
	scanCmd.Flags().BoolVar(&exitZeroFlag, "exit-zero", false, "report findings but always exit 0")
	rootCmd.AddCommand(scanCmd)
}

// formatter writes a ScanResult to a writer.
type formatter interface {
	Format(w io.Writer, result *model.ScanResult) error
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	repoRoot, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	cfg, err := config.Load(repoRoot, cfgFile)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	if exitZeroFlag {
		cfg.CI.ExitZero = true
	}

	var diffText string
	if diffFile != "" {
		data, err := os.ReadFile(diffFile)
		if err != nil {
			return fmt.Errorf("scan: reading diff file: %w", err)
		}
		diffText = string(data)
	} else if cfg.Scan.ScanUnstaged {
		log.Debug("reading unstaged changes")
		diffText, err = vcsadapter.UnstagedDiff(ctx, repoRoot)
		if err != nil {
			return fmt.Errorf("scan: %w", err)
		}
	} else {
		log.Debug("reading staged changes")
		diffText, err = vcsadapter.StagedDiff(ctx, repoRoot)
		if err != nil {
			return fmt.Errorf("scan: %w", err)
		}
	}

	result, err := runScanPipeline(ctx, diffText, cfg, repoRoot)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	if err := writeScanResult(result, cfg); err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	if result.Blocked && !cfg.CI.ExitZero {
		os.Exit(1)
	}
	return nil
}

// runScanPipeline builds the rule registry and suppression inputs and
// runs the core scan engine. Both scan and ci share this helper so
// the pipeline wiring lives in one place.
func runScanPipeline(_ context.Context, diffText string, cfg *config.Config, repoRoot string) (*model.ScanResult, error) {
	registry, err := rules.Build(cfg, repoRoot)
	if err != nil {
		return nil, err
	}

	ignoreFile, err := suppress.LoadIgnoreFile(repoRoot + "/.gitsafeignore")
	if err != nil {
		return nil, err
	}

	result, err := scanengine.Scan(diffText, scanengine.Options{
		Registry:   registry,
		Config:     cfg,
		IgnoreFile: ignoreFile,
		RepoRoot:   repoRoot,
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func writeScanResult(result *model.ScanResult, cfg *config.Config) error {
	f := selectFormatter(resolveFormat(cfg), cfg.CI.FullRedaction)
	return f.Format(os.Stdout, result)
}

func resolveFormat(cfg *config.Config) string {
	if format != "" {
		return format
	}
	return cfg.Output.Format
}

func selectFormatter(name string, fullRedaction bool) formatter {
	switch name {
	case "json":
		return report.NewJSONFormatter(fullRedaction)
	case "sarif":
		return report.NewSARIFFormatter(fullRedaction)
	default:
		return report.NewTerminalFormatter(fullRedaction)
	}
}
