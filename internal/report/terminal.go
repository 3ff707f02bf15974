// Package report renders a model.ScanResult as terminal text, JSON,
// or SARIF. Redaction is owned here, never by the scan engine: a
// Finding carries the real matched value so a local run can reveal
// enough of it to confirm a false positive, and a CI run can redact
// it fully before it ever reaches a log.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Ronak-jain-afk/GitSafe/internal/model"
)

const (
	colorReset    = "\033[0m"
	colorRed      = "\033[31m"
	colorYellow   = "\033[33m"
	colorCyan     = "\033[36m"
	colorGreen    = "\033[32m"
	colorBold     = "\033[1m"
	colorDim      = "\033[2m"
)

// TerminalFormatter writes a colour-coded report for a human reading
// a pre-commit hook's stdout.
type TerminalFormatter struct {
	FullRedaction bool
}

// NewTerminalFormatter returns a formatter redacting matched values
// per fullRedaction.
func NewTerminalFormatter(fullRedaction bool) *TerminalFormatter {
	return &TerminalFormatter{FullRedaction: fullRedaction}
}

func (f *TerminalFormatter) Format(w io.Writer, result *model.ScanResult) error {
	fmt.Fprintf(w, "\n%s%s══════════════════════════════════════════%s\n", colorBold, colorCyan, colorReset)
	fmt.Fprintf(w, "%s%s  GitSafe Scan Report%s\n", colorBold, colorCyan, colorReset)
	fmt.Fprintf(w, "%s%s══════════════════════════════════════════%s\n\n", colorBold, colorCyan, colorReset)

	if len(result.Findings) == 0 {
		fmt.Fprintf(w, "  %sNo secrets detected — clean diff!%s\n\n", colorGreen, colorReset)
		f.writeFooter(w, result)
		return nil
	}

	grouped := groupBySeverity(result.Findings)
	for _, sev := range []model.Severity{model.SeverityCritical, model.SeverityHigh, model.SeverityMedium, model.SeverityLow} {
		findings, ok := grouped[sev]
		if !ok {
			continue
		}
		color := severityColor(sev)
		fmt.Fprintf(w, "  %s%s── %s (%d) ──%s\n", colorBold, color, strings.ToUpper(sev.String()), len(findings), colorReset)

		for _, finding := range findings {
			fmt.Fprintf(w, "    %s[%s]%s %s\n", color, finding.ID, colorReset, finding.RuleName)
			fmt.Fprintf(w, "      %s%s:%d%s\n", colorDim, finding.File, finding.LineNo, colorReset)
			fmt.Fprintf(w, "      matched: %s\n", model.Redact(finding.MatchedValue, f.FullRedaction))
			if finding.Description != "" {
				fmt.Fprintf(w, "      %s\n", finding.Description)
			}
			fmt.Fprintln(w)
		}
	}

	f.writeFooter(w, result)
	return nil
}

func (f *TerminalFormatter) writeFooter(w io.Writer, result *model.ScanResult) {
	fmt.Fprintf(w, "  %s%s──────────────────────────────────────────%s\n", colorDim, colorCyan, colorReset)
	fmt.Fprintf(w, "  %sFiles scanned: %d | Skipped: %d | Blocked: %v%s\n",
		colorDim, result.ScannedFiles, len(result.SkippedFiles), result.Blocked, colorReset)
	fmt.Fprintf(w, "  %sDuration: %.2fms%s\n\n", colorDim, result.DurationMs, colorReset)
}

func severityColor(s model.Severity) string {
	switch s {
	case model.SeverityCritical, model.SeverityHigh:
		return colorRed
	case model.SeverityMedium:
		return colorYellow
	default:
		return colorDim
	}
}

func groupBySeverity(findings []model.Finding) map[model.Severity][]model.Finding {
	grouped := make(map[model.Severity][]model.Finding)
	for _, f := range findings {
		grouped[f.Severity] = append(grouped[f.Severity], f)
	}
	for sev := range grouped {
		sort.Slice(grouped[sev], func(i, j int) bool {
			return grouped[sev][i].File < grouped[sev][j].File
		})
	}
	return grouped
}
