// Package hookinstall installs and removes gitsafe's pre-commit git
// hook, gating uninstall on a marker comment so it never clobbers a
// hook it didn't write.
package hookinstall

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const hookMarker = "# gitsafe-hook"

const hookScript = `#!/bin/sh
` + hookMarker + `
# Installed by gitsafe — https://github.com/Ronak-jain-afk/GitSafe
# To uninstall: gitsafe hooks uninstall

exec gitsafe scan
`

func hooksDir(repoRoot string) string {
	return filepath.Join(repoRoot, ".git", "hooks")
}

// Install writes the gitsafe pre-commit hook. If a hook already
// exists and wasn't installed by gitsafe, it refuses unless force is
// set.
func Install(repoRoot string, force bool) (string, error) {
	dir := hooksDir(repoRoot)
	if info, err := os.Stat(filepath.Dir(dir)); err != nil || !info.IsDir() {
		return "", fmt.Errorf("hookinstall: not a git repository: %s", repoRoot)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("hookinstall: creating hooks directory: %w", err)
	}

	hookPath := filepath.Join(dir, "pre-commit")

	if existing, err := os.ReadFile(hookPath); err == nil {
		if strings.Contains(string(existing), hookMarker) {
			return "gitsafe hook is already installed.", nil
		}
		if !force {
			return "", fmt.Errorf(
				"hookinstall: a pre-commit hook already exists at %s; use --force to overwrite, or add 'gitsafe scan' to it manually",
				hookPath,
			)
		}
	}

	if err := os.WriteFile(hookPath, []byte(hookScript), 0o755); err != nil {
		return "", fmt.Errorf("hookinstall: writing hook: %w", err)
	}
	return fmt.Sprintf("Installed gitsafe pre-commit hook at %s", hookPath), nil
}

// Uninstall removes the gitsafe pre-commit hook, refusing to touch a
// hook it didn't install.
func Uninstall(repoRoot string) (string, error) {
	hookPath := filepath.Join(hooksDir(repoRoot), "pre-commit")

	content, err := os.ReadFile(hookPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "No pre-commit hook found — nothing to remove.", nil
		}
		return "", fmt.Errorf("hookinstall: reading hook: %w", err)
	}

	if !strings.Contains(string(content), hookMarker) {
		return "", fmt.Errorf("hookinstall: pre-commit hook exists but was not installed by gitsafe")
	}

	if err := os.Remove(hookPath); err != nil {
		return "", fmt.Errorf("hookinstall: removing hook: %w", err)
	}
	return fmt.Sprintf("Removed gitsafe pre-commit hook from %s", hookPath), nil
}
