package model

// FileStatus describes how a file changed between the two revisions a
// diff compares.
type FileStatus string

const (
	FileAdded    FileStatus = "added"
	FileModified FileStatus = "modified"
	FileDeleted  FileStatus = "deleted"
	FileRenamed  FileStatus = "renamed"
)

// SkipReason explains why the parser declined to scan a file's
// content.
type SkipReason string

const (
	SkipBinary   SkipReason = "binary"
	SkipModeOnly SkipReason = "mode_only"
	SkipOversize SkipReason = "oversized"
	SkipIgnored  SkipReason = "ignored"
)

// EventKind tags which variant a DiffEvent holds.
type EventKind int

const (
	EventFileEnter EventKind = iota
	EventAddedLine
	EventFileSkipped
)

// DiffEvent is the closed sum type the parser emits. Exactly one of
// the variant-specific fields is meaningful, selected by Kind — Go has
// no tagged-union syntax, so the fields are grouped by the variant
// that populates them and callers must switch on Kind before reading.
//
//   - FileEnter:   Path, OldPath, Status
//   - AddedLine:   Path, LineNo, Content
//   - FileSkipped: Path, Reason
type DiffEvent struct {
	Kind EventKind

	Path    string
	OldPath string // only set for FileEnter with Status == FileRenamed
	Status  FileStatus

	LineNo  int
	Content string

	Reason SkipReason
}

// FileEnter builds a FileEnter event.
func FileEnter(path, oldPath string, status FileStatus) DiffEvent {
	return DiffEvent{Kind: EventFileEnter, Path: path, OldPath: oldPath, Status: status}
}

// AddedLine builds an AddedLine event. LineNo must be >= 1.
func AddedLine(path string, lineNo int, content string) DiffEvent {
	return DiffEvent{Kind: EventAddedLine, Path: path, LineNo: lineNo, Content: content}
}

// FileSkipped builds a FileSkipped event.
func FileSkipped(path string, reason SkipReason) DiffEvent {
	return DiffEvent{Kind: EventFileSkipped, Path: path, Reason: reason}
}
