// Package config loads .gitsafe.toml, applies CI_GITSAFE_* environment
// overrides, and exposes the typed configuration tree every other
// package reads from. Nothing in this package depends on the scan
// engine or rule registry, keeping the load order acyclic.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/Ronak-jain-afk/GitSafe/internal/model"
)

// Config is the root configuration tree, mirroring .gitsafe.toml's
// section layout one-to-one.
type Config struct {
	Version   string          `toml:"version"`
	Scan      ScanConfig      `toml:"scan"`
	Output    OutputConfig    `toml:"output"`
	Rules     RulesConfig     `toml:"rules"`
	Entropy   EntropyConfig   `toml:"entropy"`
	Ignore    IgnoreConfig    `toml:"ignore"`
	Allowlist AllowlistConfig `toml:"allowlist"`
	CI        CIConfig        `toml:"ci"`
}

type ScanConfig struct {
	FailOn        string `toml:"fail_on"`
	ScanUnstaged  bool   `toml:"scan_unstaged"`
	MaxFileSizeKB int    `toml:"max_file_size_kb"`
	EarlyExit     bool   `toml:"early_exit"`
}

type OutputConfig struct {
	Format       string `toml:"format"` // terminal | json | sarif
	ShowSummary  bool   `toml:"show_summary"`
	ShowSeverity bool   `toml:"show_severity"`
}

type RulesConfig struct {
	Enable  []string `toml:"enable"`
	Disable []string `toml:"disable"`
}

type EntropyConfig struct {
	Enabled    bool    `toml:"enabled"`
	MinEntropy float64 `toml:"min_entropy"`
	MinLength  int     `toml:"min_length"`
}

type IgnoreConfig struct {
	Files []string `toml:"files"`
	Rules []string `toml:"rules"`
	Paths []string `toml:"paths"`
}

type AllowlistConfig struct {
	Patterns []string `toml:"patterns"`
}

type CIConfig struct {
	AnnotationFormat string `toml:"annotation_format"` // github | gitlab | bitbucket | none
	FullRedaction    bool   `toml:"full_redaction"`
	MaxFindings      *int   `toml:"max_findings"`
	// ExitZero, when true, tells the CLI to report findings but still
	// exit 0. Resolved separately from FailOn: CI_GITSAFE_EXIT_ZERO
	// controls the process exit code, not the severity gate, so a
	// report can stay accurate about what's blocking while the build
	// doesn't fail on it.
	ExitZero bool `toml:"-"`
}

// Default returns the configuration used when no .gitsafe.toml is
// present, matching the starter template in Template().
func Default() *Config {
	return &Config{
		Version: "1.0",
		Scan: ScanConfig{
			FailOn:        "high",
			MaxFileSizeKB: 512,
		},
		Output: OutputConfig{
			Format:       "terminal",
			ShowSummary:  true,
			ShowSeverity: true,
		},
		Entropy: EntropyConfig{
			Enabled:    true,
			MinEntropy: 4.0,
			MinLength:  16,
		},
		CI: CIConfig{
			AnnotationFormat: "none",
			FullRedaction:    true,
		},
	}
}

// FailOnSeverity parses Scan.FailOn, defaulting to high on an unset or
// invalid value so a malformed config fails closed rather than open.
func (c *Config) FailOnSeverity() model.Severity {
	sev, err := model.ParseSeverity(c.Scan.FailOn)
	if err != nil {
		return model.SeverityHigh
	}
	return sev
}

// FindFile locates the config file to load: override if given,
// otherwise repoRoot/.gitsafe.toml if it exists. Returns "" when
// neither is present.
func FindFile(repoRoot, override string) (string, error) {
	if override != "" {
		if _, err := os.Stat(override); err != nil {
			return "", fmt.Errorf("config: file not found: %s", override)
		}
		return override, nil
	}
	candidate := filepath.Join(repoRoot, ".gitsafe.toml")
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	return "", nil
}

// Load reads and merges configuration from repoRoot/.gitsafe.toml (or
// override), then applies CI_GITSAFE_* environment overrides on top.
func Load(repoRoot, override string) (*Config, error) {
	path, err := FindFile(repoRoot, override)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides mutates cfg in place per CI_GITSAFE_* variables.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("CI_GITSAFE_FAIL_ON"); val != "" {
		if _, err := model.ParseSeverity(val); err == nil {
			cfg.Scan.FailOn = val
		}
	}
	if val := os.Getenv("CI_GITSAFE_FORMAT"); val != "" {
		switch val {
		case "terminal", "json", "sarif":
			cfg.Output.Format = val
		}
	}
	if val := os.Getenv("CI_GITSAFE_DISABLE_RULES"); val != "" {
		for _, id := range strings.Split(val, ",") {
			id = strings.TrimSpace(id)
			if id != "" {
				cfg.Rules.Disable = append(cfg.Rules.Disable, id)
			}
		}
	}
	if val := os.Getenv("CI_GITSAFE_IGNORE_PATHS"); val != "" {
		sep := ":"
		if os.PathSeparator == '\\' {
			sep = ";"
		}
		for _, p := range strings.Split(val, sep) {
			p = strings.TrimSpace(p)
			if p != "" {
				cfg.Ignore.Paths = append(cfg.Ignore.Paths, p)
			}
		}
	}
	if os.Getenv("CI_GITSAFE_EXIT_ZERO") == "1" {
		cfg.CI.ExitZero = true
	}
	if val := os.Getenv("CI_GITSAFE_MAX_FINDINGS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.CI.MaxFindings = &n
		}
	}
}
