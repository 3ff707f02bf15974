package diffparse

import (
	"testing"

	"github.com/Ronak-jain-afk/GitSafe/internal/model"
)

func TestParseSingleCountHunkHeader(t *testing.T) {
	diff := "diff --git a/main.go b/main.go\n" +
		"@@ -1 +1 @@\n" +
		"-old line\n" +
		"+new line\n"

	events := Parse(diff)
	var added []model.DiffEvent
	for _, e := range events {
		if e.Kind == model.EventAddedLine {
			added = append(added, e)
		}
	}
	if len(added) != 1 || added[0].LineNo != 1 || added[0].Content != "new line" {
		t.Fatalf("unexpected added lines: %+v", added)
	}
}

func TestParseMultipleHunksIndependentCounters(t *testing.T) {
	diff := "diff --git a/main.go b/main.go\n" +
		"@@ -1,2 +1,2 @@\n" +
		" context\n" +
		"+first\n" +
		"@@ -10,2 +11,2 @@\n" +
		" context\n" +
		"+second\n"

	var lineNos []int
	for _, e := range Parse(diff) {
		if e.Kind == model.EventAddedLine {
			lineNos = append(lineNos, e.LineNo)
		}
	}
	if len(lineNos) != 2 || lineNos[0] != 2 || lineNos[1] != 12 {
		t.Fatalf("expected independent hunk counters [2 12], got %v", lineNos)
	}
}

func TestParseDeletedFileYieldsNoAddedLines(t *testing.T) {
	diff := "diff --git a/gone.go b/gone.go\n" +
		"deleted file mode 100644\n" +
		"@@ -1,2 +0,0 @@\n" +
		"-line one\n" +
		"-line two\n"

	events := Parse(diff)
	var enter *model.DiffEvent
	for i, e := range events {
		if e.Kind == model.EventFileEnter {
			enter = &events[i]
		}
		if e.Kind == model.EventAddedLine {
			t.Fatalf("deleted file should yield no added lines, got %+v", e)
		}
	}
	if enter == nil || enter.Status != model.FileDeleted {
		t.Fatalf("expected a FileEnter with status=deleted, got %+v", enter)
	}
}

func TestParseRenameCarriesOldPath(t *testing.T) {
	diff := "diff --git a/old_name.go b/new_name.go\n" +
		"similarity index 100%\n" +
		"rename from old_name.go\n" +
		"rename to new_name.go\n" +
		"diff --git a/other.go b/other.go\n" +
		"@@ -1 +1 @@\n" +
		"+x\n"

	events := Parse(diff)
	found := false
	for _, e := range events {
		if e.Kind == model.EventFileEnter && e.Path == "new_name.go" {
			found = true
			if e.OldPath != "old_name.go" || e.Status != model.FileRenamed {
				t.Fatalf("unexpected rename event: %+v", e)
			}
		}
	}
	if !found {
		t.Fatalf("expected a FileEnter event for the zero-hunk rename, got %+v", events)
	}
}

func TestParseCRLFPreserved(t *testing.T) {
	diff := "diff --git a/win.txt b/win.txt\n" +
		"@@ -0,0 +1 @@\n" +
		"+line with CR\r\n"

	events := Parse(diff)
	for _, e := range events {
		if e.Kind == model.EventAddedLine {
			if e.Content != "line with CR\r" {
				t.Fatalf("expected trailing CR preserved, got %q", e.Content)
			}
			return
		}
	}
	t.Fatalf("expected an added line event")
}

func TestParseStripsLeadingBOM(t *testing.T) {
	diff := "diff --git a/f.txt b/f.txt\n" +
		"@@ -0,0 +1 @@\n" +
		"+﻿content\n"

	events := Parse(diff)
	for _, e := range events {
		if e.Kind == model.EventAddedLine {
			if e.Content != "content" {
				t.Fatalf("expected BOM stripped, got %q", e.Content)
			}
			return
		}
	}
	t.Fatalf("expected an added line event")
}

func TestParseBinaryFileSkipped(t *testing.T) {
	diff := "diff --git a/img.png b/img.png\n" +
		"index 1111111..2222222 100644\n" +
		"Binary files a/img.png and b/img.png differ\n"

	events := Parse(diff)
	if len(events) != 1 {
		t.Fatalf("expected exactly one event for a binary file, got %d: %+v", len(events), events)
	}
	if events[0].Kind != model.EventFileSkipped || events[0].Reason != model.SkipBinary {
		t.Fatalf("expected FileSkipped{binary}, got %+v", events[0])
	}
}

func TestParseModeOnlySkipped(t *testing.T) {
	diff := "diff --git a/script.sh b/script.sh\n" +
		"old mode 100644\n" +
		"new mode 100755\n"

	events := Parse(diff)
	if len(events) != 1 || events[0].Kind != model.EventFileSkipped || events[0].Reason != model.SkipModeOnly {
		t.Fatalf("expected exactly one FileSkipped{mode_only}, got %+v", events)
	}
}

func TestParseSubmodulePointerSkipped(t *testing.T) {
	diff := "diff --git a/vendor/lib b/vendor/lib\n" +
		"@@ -1 +1 @@\n" +
		"-Subproject commit aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa\n" +
		"+Subproject commit bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb\n"

	for _, e := range Parse(diff) {
		if e.Kind == model.EventAddedLine {
			t.Fatalf("submodule pointer line should not be emitted as an added line: %+v", e)
		}
	}
}

func TestParseNoNewlineMarkerSkipped(t *testing.T) {
	diff := "diff --git a/f.txt b/f.txt\n" +
		"@@ -0,0 +1 @@\n" +
		"+last line\n" +
		"\\ No newline at end of file\n"

	var added []model.DiffEvent
	for _, e := range Parse(diff) {
		if e.Kind == model.EventAddedLine {
			added = append(added, e)
		}
	}
	if len(added) != 1 {
		t.Fatalf("expected exactly 1 added line, got %d", len(added))
	}
}
