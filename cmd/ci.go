package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Ronak-jain-afk/GitSafe/internal/ciannotate"
	"github.com/Ronak-jain-afk/GitSafe/internal/config"
	"github.com/Ronak-jain-afk/GitSafe/internal/vcsadapter"
)

// maxConcurrentCommitDiffs bounds how many git-diff subprocesses a
// multi-commit CI range spawns at once.
const maxConcurrentCommitDiffs = int64(4)

var ciCmd = &cobra.Command{
	Use:   "ci",
	Short: "Scan a pull request diff in CI, with platform auto-detection",
	Long: `ci auto-detects the CI environment (GitHub Actions, Forgejo
Actions, GitLab CI) to resolve the base/head commit range, runs the
same scan pipeline as 'gitsafe scan', and additionally writes inline
annotations to stdout in the platform's native format.

It never calls out to a remote API: annotations are written to stdout
for the CI platform's own log parser to pick up, and the exit code is
how the build fails or passes.`,
	Args: cobra.NoArgs,
	RunE: runCI,
}

func init() {
	rootCmd.AddCommand(ciCmd)
}

// ciEnvironment holds the commit range resolved from a CI platform's
// own environment variables.
type ciEnvironment struct {
	Provider string // "github", "forgejo", "gitlab", "generic"
	Base     string
	Head     string
}

func detectCIEnvironment() *ciEnvironment {
	switch {
	case os.Getenv("FORGEJO_ACTIONS") == "true" || os.Getenv("GITEA_ACTIONS") == "true":
		return detectGitHubCompatible("forgejo")
	case os.Getenv("GITHUB_ACTIONS") == "true":
		return detectGitHubCompatible("github")
	case os.Getenv("GITLAB_CI") == "true":
		return detectGitLab()
	default:
		return &ciEnvironment{Provider: "generic"}
	}
}

// detectGitHubCompatible covers both GitHub Actions and Forgejo
// Actions, which share the same pull-request environment variables.
func detectGitHubCompatible(provider string) *ciEnvironment {
	env := &ciEnvironment{Provider: provider}
	ref := os.Getenv("GITHUB_REF")
	if strings.HasPrefix(ref, "refs/pull/") {
		env.Base = os.Getenv("GITHUB_BASE_REF")
		env.Head = os.Getenv("GITHUB_SHA")
	}
	return env
}

func detectGitLab() *ciEnvironment {
	return &ciEnvironment{
		Provider: "gitlab",
		Base:     os.Getenv("CI_MERGE_REQUEST_DIFF_BASE_SHA"),
		Head:     os.Getenv("CI_COMMIT_SHA"),
	}
}

func annotationFormatFor(env *ciEnvironment, cfg *config.Config) ciannotate.Format {
	if cfg.CI.AnnotationFormat != "" && cfg.CI.AnnotationFormat != "none" {
		return ciannotate.Format(cfg.CI.AnnotationFormat)
	}
	switch env.Provider {
	case "github", "forgejo":
		return ciannotate.FormatGitHub
	case "gitlab":
		return ciannotate.FormatGitLab
	default:
		return ciannotate.FormatNone
	}
}

func runCI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	repoRoot, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("ci: %w", err)
	}

	cfg, err := config.Load(repoRoot, cfgFile)
	if err != nil {
		return fmt.Errorf("ci: %w", err)
	}

	env := detectCIEnvironment()
	log.Info("detected CI environment", "provider", env.Provider, "base", env.Base, "head", env.Head)

	diffText, err := getCIDiff(ctx, repoRoot, env)
	if err != nil {
		return fmt.Errorf("ci: %w", err)
	}

	result, err := runScanPipeline(ctx, diffText, cfg, repoRoot)
	if err != nil {
		return fmt.Errorf("ci: %w", err)
	}

	if err := writeScanResult(result, cfg); err != nil {
		return fmt.Errorf("ci: %w", err)
	}

	if err := ciannotate.Write(os.Stdout, result, annotationFormatFor(env, cfg)); err != nil {
		return fmt.Errorf("ci: writing annotations: %w", err)
	}

	if result.Blocked && !cfg.CI.ExitZero {
		os.Exit(1)
	}
	return nil
}

// getCIDiff resolves the commit range from the detected environment
// and falls back to a plain HEAD~1..HEAD diff when nothing usable was
// detected — a generic CI runner, or manual invocation outside a PR.
//
// When the range spans more than one commit, each commit's diff is
// fetched concurrently (bounded by maxConcurrentCommitDiffs) instead
// of diffing the whole range in one shot, so a large PR's per-commit
// diffs are gathered in parallel while scanengine.Scan itself still
// runs single-threaded over the concatenated result.
func getCIDiff(ctx context.Context, repoRoot string, env *ciEnvironment) (string, error) {
	if env.Base != "" && env.Head != "" {
		return rangeDiffByCommit(ctx, repoRoot, env.Base, env.Head)
	}
	log.Warn("ci: no base/head resolved from environment, falling back to git diff HEAD~1..HEAD")
	return vcsadapter.RangeDiff(ctx, repoRoot, "HEAD~1", "HEAD")
}

// rangeDiffByCommit expands base..head into its individual commits and
// fetches each commit's diff concurrently. It falls back to a single
// RangeDiff call when the commit list can't be resolved or holds at
// most one commit — the common case of a single-commit PR doesn't
// benefit from the extra subprocesses.
func rangeDiffByCommit(ctx context.Context, repoRoot, base, head string) (string, error) {
	commits, err := vcsadapter.CommitList(ctx, repoRoot, base, head)
	if err != nil || len(commits) <= 1 {
		return vcsadapter.RangeDiff(ctx, repoRoot, base, head)
	}

	ranges := make([][2]string, len(commits))
	parent := base
	for i, commit := range commits {
		ranges[i] = [2]string{parent, commit}
		parent = commit
	}

	diffs, err := vcsadapter.RangeDiffs(ctx, repoRoot, ranges, maxConcurrentCommitDiffs)
	if err != nil {
		return "", err
	}
	return strings.Join(diffs, "\n"), nil
}
