// Package vcsadapter runs git as a subprocess to retrieve the diff
// text the scan engine consumes, the only point where this module
// touches version control. It never parses git's output itself —
// internal/diffparse owns that.
package vcsadapter

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"
)

// StagedDiff returns the diff of currently staged changes, with zero
// context lines and no colour so the parser sees exactly one line per
// hunk boundary.
func StagedDiff(ctx context.Context, repoRoot string) (string, error) {
	return runGitDiff(ctx, repoRoot, "--cached", "--unified=0", "--no-color")
}

// UnstagedDiff returns the diff of unstaged working-tree changes.
func UnstagedDiff(ctx context.Context, repoRoot string) (string, error) {
	return runGitDiff(ctx, repoRoot, "--unified=0", "--no-color")
}

// RangeDiff returns the diff between base and head, the shape a CI
// job compares a pull request against. It tries the three-dot form
// first (diff against the merge base, what a PR actually changed),
// falling back to the two-dot form — a plain diff of base against
// head — when three-dot fails, which happens on a shallow clone or a
// detached HEAD where git can't resolve a common ancestor.
func RangeDiff(ctx context.Context, repoRoot, base, head string) (string, error) {
	out, err := runGitDiff(ctx, repoRoot, "--unified=0", "--no-color", base+"..."+head)
	if err == nil {
		return out, nil
	}
	return runGitDiff(ctx, repoRoot, "--unified=0", "--no-color", base, head)
}

// CommitList returns the commit SHAs reachable from head but not from
// base, oldest first — the commits a CI job's pull request actually
// introduced.
func CommitList(ctx context.Context, repoRoot, base, head string) ([]string, error) {
	fullArgs := []string{"-C", repoRoot, "rev-list", "--reverse", base + ".." + head}
	cmd := exec.CommandContext(ctx, "git", fullArgs...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("vcsadapter: git rev-list failed: %w: %s", err, stderr.String())
	}

	var shas []string
	for _, line := range strings.Split(strings.TrimSpace(stdout.String()), "\n") {
		if line != "" {
			shas = append(shas, line)
		}
	}
	return shas, nil
}

func runGitDiff(ctx context.Context, repoRoot string, args ...string) (string, error) {
	fullArgs := append([]string{"-C", repoRoot, "diff"}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("vcsadapter: git diff failed: %w: %s", err, stderr.String())
	}
	return stdout.String(), nil
}

// RangeDiffs fetches the diff for each of several commit ranges
// concurrently, bounded by a semaphore so a CI job comparing many
// commits doesn't spawn an unbounded number of git subprocesses. This
// is the only concurrent part of the scan pipeline: the fetch, never
// the matching loop in internal/scanengine.
func RangeDiffs(ctx context.Context, repoRoot string, ranges [][2]string, maxConcurrent int64) ([]string, error) {
	sem := semaphore.NewWeighted(maxConcurrent)
	results := make([]string, len(ranges))
	errs := make([]error, len(ranges))

	var wg sync.WaitGroup
	for i, r := range ranges {
		if err := sem.Acquire(ctx, 1); err != nil {
			errs[i] = err
			continue
		}
		wg.Add(1)
		go func(i int, rng [2]string) {
			defer wg.Done()
			defer sem.Release(1)
			diff, err := RangeDiff(ctx, repoRoot, rng[0], rng[1])
			results[i] = diff
			errs[i] = err
		}(i, r)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
