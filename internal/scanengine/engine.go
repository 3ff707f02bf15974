// Package scanengine orchestrates a single diff scan: parse, match
// against file and content rules, apply allowlists and suppressions,
// run entropy analysis, then dedupe and severity-gate the result.
//
// Scan runs on a single goroutine, start to finish. Nothing in this
// package spawns a goroutine or blocks on a channel — the algorithm
// is a single pass over the parsed event list, and concurrency
// belongs to the ambient collaborators that fetch diffs, not to the
// matching loop itself.
package scanengine

import (
	"fmt"
	"path/filepath"
	"regexp"
	"time"

	"github.com/Ronak-jain-afk/GitSafe/internal/config"
	"github.com/Ronak-jain-afk/GitSafe/internal/diffparse"
	"github.com/Ronak-jain-afk/GitSafe/internal/entropy"
	"github.com/Ronak-jain-afk/GitSafe/internal/model"
	"github.com/Ronak-jain-afk/GitSafe/internal/rules"
	"github.com/Ronak-jain-afk/GitSafe/internal/suppress"
)

// Error is raised on an internal scanner error. It never carries
// matched secret bytes — the message only reports how many raw
// findings had already been produced before the failure, mirroring
// the exception-safety contract in spec.md §7.
type Error struct {
	RawFindingCount int
}

func (e *Error) Error() string {
	return fmt.Sprintf("scanengine: internal error after %d findings; secrets have been scrubbed from this error", e.RawFindingCount)
}

// Options configures a single Scan call with everything read from the
// repository that isn't part of the rule registry or the parsed diff
// itself.
type Options struct {
	Registry   *rules.Registry
	Config     *config.Config
	IgnoreFile *suppress.IgnoreFile // .gitsafeignore, or an empty one
	RepoRoot   string
}

// Scan runs the full pipeline against diffText and returns the
// resulting ScanResult. It recovers from any panic raised while
// matching (a malformed custom regex, an out-of-range index) and
// converts it into an *Error that never repeats the panic value, so a
// secret captured in a regex match can never leak through a crash
// message.
func Scan(diffText string, opts Options) (result *model.ScanResult, err error) {
	start := time.Now()

	globalAllowlist := make([]*regexp.Regexp, 0, len(opts.Config.Allowlist.Patterns))
	for _, p := range opts.Config.Allowlist.Patterns {
		globalAllowlist = append(globalAllowlist, regexp.MustCompile("(?i)"+p))
	}

	ignoreFile := opts.IgnoreFile
	if ignoreFile == nil {
		ignoreFile = &suppress.IgnoreFile{}
	}
	ignoreGlobs := append(append([]string{}, opts.Config.Ignore.Files...), opts.Config.Ignore.Paths...)

	events := diffparse.Parse(diffText)

	fileLines := make(map[string][]suppress.AddedLine)
	for _, ev := range events {
		if ev.Kind == model.EventAddedLine {
			fileLines[ev.Path] = append(fileLines[ev.Path], suppress.AddedLine{LineNo: ev.LineNo, Content: ev.Content})
		}
	}
	suppressionIndex := suppress.NewIndex()
	for file, lines := range fileLines {
		suppressionIndex.RegisterLines(file, lines)
	}

	contentRules := opts.Registry.ContentRules()
	fileRules := opts.Registry.FileRules()
	entropyCfg := opts.Config.Entropy

	var rawFindings []model.RawFinding
	var suppressions []model.Suppression
	var skippedFiles []string
	scannedFiles := make(map[string]struct{})
	ignoredFiles := make(map[string]struct{})

	defer func() {
		if rec := recover(); rec != nil {
			n := len(rawFindings)
			rawFindings = nil
			err = &Error{RawFindingCount: n}
			result = nil
		}
	}()

loop:
	for _, ev := range events {
		switch ev.Kind {
		case model.EventFileSkipped:
			skippedFiles = append(skippedFiles, fmt.Sprintf("%s (%s)", ev.Path, ev.Reason))

		case model.EventFileEnter:
			path := ev.Path

			if matchesAny(ignoreGlobs, path) {
				skippedFiles = append(skippedFiles, fmt.Sprintf("%s (ignored)", path))
				ignoredFiles[path] = struct{}{}
				continue
			}
			if ignoreFile.IsIgnored(path, "") {
				skippedFiles = append(skippedFiles, fmt.Sprintf("%s (gitsafeignore)", path))
				ignoredFiles[path] = struct{}{}
				continue
			}
			scannedFiles[path] = struct{}{}

			base := filepath.Base(path)
			for _, rule := range fileRules {
				if !matchesFilePatterns(rule.FilePatterns, base, path) {
					continue
				}
				if rule.MatchesAllowlist(base) {
					continue
				}
				rawFindings = append(rawFindings, model.RawFinding{
					RuleID: rule.ID, RuleName: rule.Name, Severity: rule.Severity,
					Category: rule.Category, File: path, LineNo: 0,
					MatchedValue: base, Description: rule.Description,
					DetectionMethod: model.DetectionFilePattern,
				})
			}

		case model.EventAddedLine:
			path := ev.Path
			lineNo := ev.LineNo
			content := ev.Content

			if _, ignored := ignoredFiles[path]; ignored {
				continue
			}
			scannedFiles[path] = struct{}{}

			for _, rule := range contentRules {
				if rule.IsEntropyRule() || rule.Pattern == nil {
					continue
				}
				m := rule.Pattern.FindStringSubmatch(content)
				if m == nil {
					continue
				}
				matched := m[0]
				if idx := rule.Pattern.SubexpIndex("secret"); idx >= 0 && idx < len(m) && m[idx] != "" {
					matched = m[idx]
				}

				if rule.MatchesAllowlist(matched) {
					continue
				}
				if matchesAllowlist(globalAllowlist, matched) {
					continue
				}
				if ignoreFile.IsIgnored(path, rule.ID) {
					continue
				}
				if sup := suppressionIndex.IsSuppressed(path, lineNo, rule.ID); sup != nil {
					suppressions = append(suppressions, *sup)
					continue
				}

				rawFindings = append(rawFindings, model.RawFinding{
					RuleID: rule.ID, RuleName: rule.Name, Severity: rule.Severity,
					Category: rule.Category, File: path, LineNo: lineNo,
					MatchedValue: matched, Description: rule.Description,
					DetectionMethod: model.DetectionRegex,
				})

				if opts.Config.Scan.EarlyExit && rule.Severity == model.SeverityCritical {
					break
				}
			}

			if entropyCfg.Enabled {
				for _, hit := range entropy.FindHighEntropy(content, entropyCfg.MinEntropy, entropyCfg.MinLength) {
					if matchesAllowlist(globalAllowlist, hit.Candidate) {
						continue
					}
					if ignoreFile.IsIgnored(path, "HIGH_ENTROPY_STRING") {
						continue
					}
					if sup := suppressionIndex.IsSuppressed(path, lineNo, "HIGH_ENTROPY_STRING"); sup != nil {
						suppressions = append(suppressions, *sup)
						continue
					}

					entropyVal := hit.Entropy
					rawFindings = append(rawFindings, model.RawFinding{
						RuleID: "HIGH_ENTROPY_STRING", RuleName: "High-Entropy String",
						Severity: model.SeverityMedium, Category: model.CategorySensitive,
						File: path, LineNo: lineNo, MatchedValue: hit.Candidate,
						Description:     fmt.Sprintf("Shannon entropy %.2f bits", hit.Entropy),
						DetectionMethod: model.DetectionEntropy,
						EntropyValue:    &entropyVal,
					})
				}
			}

			if opts.Config.CI.MaxFindings != nil && len(rawFindings) >= *opts.Config.CI.MaxFindings {
				break loop
			}
		}
	}

	findings := deduplicate(rawFindings, opts.Config.FailOnSeverity())
	blocked := false
	for _, f := range findings {
		if f.IsBlocking {
			blocked = true
			break
		}
	}

	return &model.ScanResult{
		Findings:     findings,
		Suppressions: suppressions,
		SkippedFiles: skippedFiles,
		ScannedFiles: len(scannedFiles),
		Blocked:      blocked,
		DurationMs:   float64(time.Since(start).Microseconds()) / 1000.0,
	}, nil
}

func matchesAny(globs []string, path string) bool {
	for _, g := range globs {
		if suppress.MatchGlob(g, path) {
			return true
		}
	}
	return false
}

func matchesFilePatterns(patterns []string, base, full string) bool {
	for _, pat := range patterns {
		if ok, _ := filepath.Match(pat, base); ok {
			return true
		}
		if ok, _ := filepath.Match(pat, full); ok {
			return true
		}
	}
	return false
}

func matchesAllowlist(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
