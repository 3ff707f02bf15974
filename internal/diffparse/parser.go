// Package diffparse parses a unified diff produced with zero context
// lines and no colour into an ordered stream of model.DiffEvent
// values. It implements spec.md §4.1 in full: every header variant,
// BOM stripping, CRLF preservation, mode-only and binary detection,
// renames, and submodule pointer lines.
//
// The parser never fails on malformed input (spec.md §7: "The parser
// does not fail: malformed diff regions are silently skipped"); it
// always returns a (possibly empty) event slice.
package diffparse

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"

	"github.com/Ronak-jain-afk/GitSafe/internal/model"
)

var (
	diffHeaderRe  = regexp.MustCompile(`^diff --git a/(.*) b/(.*)$`)
	hunkHeaderRe  = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)
	binaryRe      = regexp.MustCompile(`^Binary files .* and .* differ$`)
	similarityRe  = regexp.MustCompile(`^similarity index \d+%$`)
	oldModeRe     = regexp.MustCompile(`^old mode \d+$`)
	newModeRe     = regexp.MustCompile(`^new mode \d+$`)
	deletedModeRe = regexp.MustCompile(`^deleted file mode \d+$`)
	newFileModeRe = regexp.MustCompile(`^new file mode \d+$`)
	indexRe       = regexp.MustCompile(`^index [0-9a-f]+\.\.[0-9a-f]+`)
	subprojectRe  = regexp.MustCompile(`^[+-]?Subproject commit [0-9a-f]+$`)
)

const bom = "﻿"

// state names the parser's position in the {PRE_FILE, HEADERS, HUNK}
// machine spec.md §9 describes. Headers are line-prefixed and
// anchored, so no backtracking is needed between states.
type state int

const (
	statePreFile state = iota
	stateHeaders
	stateHunk
)

// fileCtx accumulates what's known about the file block currently
// being parsed, until it resolves into a FileEnter or FileSkipped
// event.
type fileCtx struct {
	oldPath    string
	newPath    string
	isRename   bool
	isDeleted  bool
	isModeOnly bool
	isBinary   bool
	sawHunk    bool
}

func (f *fileCtx) status() model.FileStatus {
	switch {
	case f.isDeleted:
		return model.FileDeleted
	case f.isRename:
		return model.FileRenamed
	default:
		return model.FileModified
	}
}

// Parse converts raw unified diff text into an ordered event list.
// Events for a given file are never interleaved with another file's
// events, and within a file FileEnter/FileSkipped always precedes its
// AddedLine events (spec.md §4.1 "Ordering guarantee").
func Parse(diffText string) []model.DiffEvent {
	var events []model.DiffEvent

	sc := bufio.NewScanner(strings.NewReader(diffText))
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var (
		st   = statePreFile
		cur  *fileCtx
		line int // current added/context line counter within the file
	)

	// closeFile resolves whatever is pending for the current file
	// block into exactly one FileEnter or FileSkipped event, called
	// whenever we learn the block has ended (a new "diff --git" line,
	// or end of input) without a trailing open hunk.
	closeFile := func() {
		if cur == nil {
			return
		}
		switch {
		case cur.isBinary:
			// Already emitted at the point of discovery.
		case cur.isModeOnly && !cur.sawHunk:
			events = append(events, model.FileSkipped(cur.newPath, model.SkipModeOnly))
		default:
			oldPath := ""
			if cur.isRename {
				oldPath = cur.oldPath
			}
			events = append(events, model.FileEnter(cur.newPath, oldPath, cur.status()))
		}
		cur = nil
		st = statePreFile
	}

	for sc.Scan() {
		rawLine := sc.Text()

		if m := diffHeaderRe.FindStringSubmatch(rawLine); m != nil {
			closeFile()
			cur = &fileCtx{oldPath: m[1], newPath: m[2]}
			st = stateHeaders
			continue
		}

		if cur == nil {
			continue
		}

		if st == stateHeaders {
			switch {
			case indexRe.MatchString(rawLine), similarityRe.MatchString(rawLine):
				continue
			case oldModeRe.MatchString(rawLine):
				cur.isModeOnly = true
				continue
			case newModeRe.MatchString(rawLine):
				continue
			case deletedModeRe.MatchString(rawLine):
				cur.isDeleted = true
				continue
			case newFileModeRe.MatchString(rawLine):
				continue
			case strings.HasPrefix(rawLine, "rename from "):
				cur.oldPath = strings.TrimPrefix(rawLine, "rename from ")
				cur.isRename = true
				continue
			case strings.HasPrefix(rawLine, "rename to "):
				cur.newPath = strings.TrimPrefix(rawLine, "rename to ")
				continue
			case binaryRe.MatchString(rawLine):
				cur.isBinary = true
				events = append(events, model.FileSkipped(cur.newPath, model.SkipBinary))
				continue
			case strings.HasPrefix(rawLine, "--- "), strings.HasPrefix(rawLine, "+++ "):
				continue
			}

			if hm := hunkHeaderRe.FindStringSubmatch(rawLine); hm != nil {
				if !cur.isBinary {
					oldPath := ""
					if cur.isRename {
						oldPath = cur.oldPath
					}
					events = append(events, model.FileEnter(cur.newPath, oldPath, cur.status()))
				}
				cur.sawHunk = true
				line = beginHunk(hm)
				st = stateHunk
				continue
			}

			// Unrecognised line while still sweeping sub-headers: not a
			// header we know, not a hunk. Treat it as the start of
			// content for files whose diff has no "@@" (rare, but keeps
			// the parser total rather than dropping the file).
			continue
		}

		// st == stateHunk
		switch {
		case strings.HasPrefix(rawLine, "--- "), strings.HasPrefix(rawLine, "+++ "):
			continue
		case strings.HasPrefix(rawLine, "\\"):
			continue // "\ No newline at end of file"
		case subprojectRe.MatchString(rawLine):
			continue
		}

		if hm := hunkHeaderRe.FindStringSubmatch(rawLine); hm != nil {
			line = beginHunk(hm)
			continue
		}

		if len(rawLine) == 0 {
			// Blank line inside a hunk is a context line some diff
			// generators emit without the leading space.
			line++
			continue
		}

		switch rawLine[0] {
		case '+':
			content := strings.TrimPrefix(rawLine, "+")
			content = strings.TrimPrefix(content, bom)
			events = append(events, model.AddedLine(cur.newPath, line, content))
			line++
		case '-':
			// removed line: not counted, not emitted
		default:
			line++ // context line
		}
	}

	closeFile()

	return events
}

// beginHunk parses a hunk header's capture groups and returns the
// starting line counter. Only newStart is retained per spec.md §4.1;
// counts default to 1 when absent (unused here since only the start
// matters for line numbering).
func beginHunk(m []string) int {
	newStart, _ := strconv.Atoi(m[3])
	return newStart
}
