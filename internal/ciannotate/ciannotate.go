// Package ciannotate formats findings as inline annotations for a CI
// job's own log stream — GitHub Actions workflow commands and GitLab
// code-quality JSON. It only ever writes to the writer it's given;
// nothing here makes a network call or posts anything to a remote
// API, since that's explicitly out of scope.
package ciannotate

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Ronak-jain-afk/GitSafe/internal/model"
)

// Format names which CI annotation dialect to emit.
type Format string

const (
	FormatGitHub Format = "github"
	FormatGitLab Format = "gitlab"
	FormatNone   Format = "none"
)

// Write emits annotations for result's findings in the given format.
// An unrecognised or "none" format writes nothing.
func Write(w io.Writer, result *model.ScanResult, format Format) error {
	switch format {
	case FormatGitHub:
		return writeGitHub(w, result)
	case FormatGitLab:
		return writeGitLab(w, result)
	default:
		return nil
	}
}

// writeGitHub emits GitHub Actions workflow commands
// (`::error file=...,line=...::message`), recognised natively in the
// Actions log UI and the PR "Files changed" view.
func writeGitHub(w io.Writer, result *model.ScanResult) error {
	for _, f := range result.Findings {
		level := "warning"
		if f.IsBlocking {
			level = "error"
		}
		fmt.Fprintf(w, "::%s file=%s,line=%d,title=%s::%s\n",
			level, f.File, f.LineNo, f.RuleID, f.Description)
	}
	return nil
}

type gitlabIssue struct {
	Description string            `json:"description"`
	CheckName   string            `json:"check_name"`
	Fingerprint string            `json:"fingerprint"`
	Severity    string            `json:"severity"`
	Location    gitlabLocation    `json:"location"`
}

type gitlabLocation struct {
	Path  string    `json:"path"`
	Lines gitlabLines `json:"lines"`
}

type gitlabLines struct {
	Begin int `json:"begin"`
}

// writeGitLab emits the GitLab Code Quality report format, a JSON
// array GitLab's merge request widget renders as inline comments.
func writeGitLab(w io.Writer, result *model.ScanResult) error {
	issues := make([]gitlabIssue, 0, len(result.Findings))
	for _, f := range result.Findings {
		issues = append(issues, gitlabIssue{
			Description: f.Description,
			CheckName:   f.RuleID,
			Fingerprint: f.Fingerprint,
			Severity:    gitlabSeverity(f.Severity),
			Location: gitlabLocation{
				Path:  f.File,
				Lines: gitlabLines{Begin: f.LineNo},
			},
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(issues)
}

func gitlabSeverity(s model.Severity) string {
	switch s {
	case model.SeverityCritical:
		return "blocker"
	case model.SeverityHigh:
		return "critical"
	case model.SeverityMedium:
		return "major"
	default:
		return "minor"
	}
}
