// Package suppress implements inline suppression comments and the
// .gitsafeignore file format, matching the ESLint/pylint/semgrep
// convention spec.md describes.
package suppress

import (
	"bufio"
	"os"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/Ronak-jain-afk/GitSafe/internal/model"
)

// suppressRe matches a trailing #gitsafe-ignore or #nosec comment,
// optionally scoped to specific rule ids.
var suppressRe = regexp.MustCompile(`#\s*(?:gitsafe-ignore|nosec)(?:\[([A-Za-z0-9_,\s]+)\])?\s*$`)

// ParseInline parses a line for a suppression marker. ok reports
// whether one was found; ruleIDs is nil to suppress every rule, or
// the explicit scoped set.
func ParseInline(line string) (ok bool, ruleIDs map[string]struct{}) {
	m := suppressRe.FindStringSubmatch(line)
	if m == nil {
		return false, nil
	}
	scope := m[1]
	if scope == "" {
		return true, nil
	}
	ids := make(map[string]struct{})
	for _, id := range strings.Split(scope, ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			ids[id] = struct{}{}
		}
	}
	return true, ids
}

// IsPureComment reports whether line, once trimmed, is a standalone
// comment line (Python/shell or C-style).
func IsPureComment(line string) bool {
	s := strings.TrimSpace(line)
	return strings.HasPrefix(s, "#") || strings.HasPrefix(s, "//") || strings.HasPrefix(s, "/*")
}

type marker struct {
	suppressAll bool
	ruleIDs     map[string]struct{}
}

// Index answers whether a given (file, line, rule) finding should be
// suppressed by an inline comment, built from a single pre-scan of
// every added line per file.
type Index struct {
	byFile map[string]map[int]marker
}

// NewIndex builds an empty suppression index.
func NewIndex() *Index {
	return &Index{byFile: make(map[string]map[int]marker)}
}

// AddedLine pairs a 1-based line number with its content, in the
// order RegisterLines expects them.
type AddedLine struct {
	LineNo  int
	Content string
}

// RegisterLines pre-scans a file's added lines for suppression
// markers: same-line suppression always applies to that line; a
// standalone suppression comment additionally suppresses the very
// next added line.
func (idx *Index) RegisterLines(file string, lines []AddedLine) {
	mapping := make(map[int]marker)

	var pending *marker
	pendingIsComment := false

	for _, l := range lines {
		ok, ids := ParseInline(l.Content)
		if ok {
			mapping[l.LineNo] = marker{suppressAll: ids == nil, ruleIDs: ids}
			if IsPureComment(l.Content) {
				m := marker{suppressAll: ids == nil, ruleIDs: ids}
				pending = &m
				pendingIsComment = true
			} else {
				pending = nil
				pendingIsComment = false
			}
			continue
		}
		if pending != nil && pendingIsComment {
			mapping[l.LineNo] = *pending
		}
		pending = nil
		pendingIsComment = false
	}

	idx.byFile[file] = mapping
}

// IsSuppressed reports whether (file, lineNo) suppresses ruleID,
// returning the audit record to keep if so.
func (idx *Index) IsSuppressed(file string, lineNo int, ruleID string) *model.Suppression {
	fileMap, ok := idx.byFile[file]
	if !ok {
		return nil
	}
	entry, ok := fileMap[lineNo]
	if !ok {
		return nil
	}
	if entry.suppressAll && entry.ruleIDs == nil {
		return &model.Suppression{
			RuleID: ruleID, File: file, LineNo: lineNo,
			Reason: model.SuppressionInline, Source: "#gitsafe-ignore",
		}
	}
	if entry.ruleIDs != nil {
		if _, hit := entry.ruleIDs[ruleID]; hit {
			return &model.Suppression{
				RuleID: ruleID, File: file, LineNo: lineNo,
				Reason: model.SuppressionInline, Source: "#gitsafe-ignore[" + ruleID + "]",
			}
		}
	}
	return nil
}

// IgnoreFile is a parsed .gitsafeignore: global path globs plus
// rule-scoped globs (`rule:RULE_ID glob`). Globs are matched with
// doublestar so ** recursive patterns work the way .gitignore-style
// tooling expects.
type IgnoreFile struct {
	global []string
	scoped map[string][]string
}

// LoadIgnoreFile reads path, returning an empty IgnoreFile if it does
// not exist.
func LoadIgnoreFile(path string) (*IgnoreFile, error) {
	f := &IgnoreFile{scoped: make(map[string][]string)}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, err
	}
	defer file.Close()

	sc := bufio.NewScanner(file)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "rule:") {
			rest := strings.TrimPrefix(line, "rule:")
			parts := strings.SplitN(rest, " ", 2)
			if len(parts) == 2 {
				ruleID := strings.TrimSpace(parts[0])
				pattern := strings.TrimSpace(parts[1])
				f.scoped[ruleID] = append(f.scoped[ruleID], pattern)
			}
			continue
		}
		f.global = append(f.global, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return f, nil
}

// IsIgnored reports whether path is ignored globally, or (when ruleID
// is non-empty) by a rule-scoped glob.
func (f *IgnoreFile) IsIgnored(path, ruleID string) bool {
	for _, pat := range f.global {
		if MatchGlob(pat, path) {
			return true
		}
	}
	if ruleID != "" {
		for _, pat := range f.scoped[ruleID] {
			if MatchGlob(pat, path) {
				return true
			}
		}
	}
	return false
}

// MatchGlob matches a doublestar pattern against path, with a
// basename-only fallback for patterns that carry no path separator —
// the same convention a plain entry in .gitignore follows.
func MatchGlob(pattern, path string) bool {
	if ok, err := doublestar.Match(pattern, path); err == nil && ok {
		return true
	}
	// A pattern with no path separator is meant to match anywhere in
	// the tree, the way a plain entry in .gitignore does.
	if !strings.Contains(pattern, "/") {
		base := path
		if i := strings.LastIndex(path, "/"); i >= 0 {
			base = path[i+1:]
		}
		if ok, err := doublestar.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}
