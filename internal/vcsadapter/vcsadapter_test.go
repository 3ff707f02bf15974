package vcsadapter

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	mustRun(t, dir, "git", "init", "-b", "main")
	mustRun(t, dir, "git", "config", "user.email", "test@example.com")
	mustRun(t, dir, "git", "config", "user.name", "Test")
	return dir
}

func mustRun(t *testing.T, dir, name string, args ...string) {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "command failed: %s %v\n%s", name, args, out)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644)
	require.NoError(t, err)
}

func commit(t *testing.T, dir, message string) string {
	t.Helper()
	mustRun(t, dir, "git", "add", ".")
	mustRun(t, dir, "git", "commit", "-m", message)
	out, err := exec.Command("git", "-C", dir, "rev-parse", "HEAD").CombinedOutput()
	require.NoError(t, err)
	return string(out[:len(out)-1])
}

func TestStagedDiff(t *testing.T) {
	dir := newTestRepo(t)
	writeFile(t, dir, "a.txt", "one\n")
	commit(t, dir, "initial")

	writeFile(t, dir, "a.txt", "one\ntwo\n")
	mustRun(t, dir, "git", "add", "a.txt")

	diff, err := StagedDiff(context.Background(), dir)
	require.NoError(t, err)
	assert.Contains(t, diff, "+two")
}

func TestUnstagedDiff(t *testing.T) {
	dir := newTestRepo(t)
	writeFile(t, dir, "a.txt", "one\n")
	commit(t, dir, "initial")

	writeFile(t, dir, "a.txt", "one\ntwo\n")

	diff, err := UnstagedDiff(context.Background(), dir)
	require.NoError(t, err)
	assert.Contains(t, diff, "+two")

	staged, err := StagedDiff(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, staged)
}

func TestRangeDiffThreeDot(t *testing.T) {
	dir := newTestRepo(t)
	writeFile(t, dir, "a.txt", "one\n")
	base := commit(t, dir, "initial")

	writeFile(t, dir, "a.txt", "one\ntwo\n")
	head := commit(t, dir, "add two")

	diff, err := RangeDiff(context.Background(), dir, base, head)
	require.NoError(t, err)
	assert.Contains(t, diff, "+two")
}

// TestRangeDiffTwoDotFallback exercises the fallback path: a ref that
// doesn't exist fails the three-dot form, and the two-dot retry fails
// the same way, but both attempts must be made in order rather than
// returning on the first error.
func TestRangeDiffTwoDotFallback(t *testing.T) {
	dir := newTestRepo(t)
	writeFile(t, dir, "a.txt", "one\n")
	commit(t, dir, "initial")

	_, err := RangeDiff(context.Background(), dir, "does-not-exist", "HEAD")
	assert.Error(t, err)
}

func TestCommitList(t *testing.T) {
	dir := newTestRepo(t)
	writeFile(t, dir, "a.txt", "one\n")
	base := commit(t, dir, "initial")

	writeFile(t, dir, "a.txt", "one\ntwo\n")
	c1 := commit(t, dir, "add two")

	writeFile(t, dir, "a.txt", "one\ntwo\nthree\n")
	c2 := commit(t, dir, "add three")

	shas, err := CommitList(context.Background(), dir, base, c2)
	require.NoError(t, err)
	require.Len(t, shas, 2)
	assert.Equal(t, c1, shas[0])
	assert.Equal(t, c2, shas[1])
}

func TestRangeDiffsConcurrentBounded(t *testing.T) {
	dir := newTestRepo(t)
	writeFile(t, dir, "a.txt", "line0\n")
	commits := []string{commit(t, dir, "initial")}

	content := "line0\n"
	for i := 1; i <= 4; i++ {
		content += fmt.Sprintf("line%d\n", i)
		writeFile(t, dir, "a.txt", content)
		commits = append(commits, commit(t, dir, fmt.Sprintf("step %d", i)))
	}

	ranges := make([][2]string, 0, len(commits)-1)
	for i := 1; i < len(commits); i++ {
		ranges = append(ranges, [2]string{commits[i-1], commits[i]})
	}

	diffs, err := RangeDiffs(context.Background(), dir, ranges, 2)
	require.NoError(t, err)
	assert.Len(t, diffs, len(ranges))
	for _, d := range diffs {
		assert.NotEmpty(t, d)
	}
}
