package report

import (
	"encoding/json"
	"io"

	"github.com/Ronak-jain-afk/GitSafe/internal/model"
)

// JSONFormatter renders a ScanResult as machine-readable JSON, the
// shape CI pipelines parse to post their own annotations.
type JSONFormatter struct {
	FullRedaction bool
}

func NewJSONFormatter(fullRedaction bool) *JSONFormatter {
	return &JSONFormatter{FullRedaction: fullRedaction}
}

type jsonFinding struct {
	ID               string                  `json:"id"`
	Fingerprint      string                  `json:"fingerprint"`
	RuleID           string                  `json:"rule_id"`
	RuleName         string                  `json:"rule_name"`
	Severity         model.Severity          `json:"severity"`
	Category         model.Category          `json:"category"`
	File             string                  `json:"file"`
	LineNo           int                     `json:"line"`
	MatchedValue     string                  `json:"matched_value"`
	Description      string                  `json:"description"`
	DetectionMethods []model.DetectionMethod `json:"detection_methods"`
	IsBlocking       bool                    `json:"is_blocking"`
}

type jsonResult struct {
	Findings     []jsonFinding `json:"findings"`
	SkippedFiles []string      `json:"skipped_files"`
	ScannedFiles int           `json:"scanned_files"`
	Blocked      bool          `json:"blocked"`
	DurationMs   float64       `json:"duration_ms"`
}

func (f *JSONFormatter) Format(w io.Writer, result *model.ScanResult) error {
	out := jsonResult{
		SkippedFiles: result.SkippedFiles,
		ScannedFiles: result.ScannedFiles,
		Blocked:      result.Blocked,
		DurationMs:   result.DurationMs,
	}
	for _, finding := range result.Findings {
		out.Findings = append(out.Findings, jsonFinding{
			ID:               finding.ID,
			Fingerprint:      finding.Fingerprint,
			RuleID:           finding.RuleID,
			RuleName:         finding.RuleName,
			Severity:         finding.Severity,
			Category:         finding.Category,
			File:             finding.File,
			LineNo:           finding.LineNo,
			MatchedValue:     model.Redact(finding.MatchedValue, f.FullRedaction),
			Description:      finding.Description,
			DetectionMethods: finding.DetectionMethods,
			IsBlocking:       finding.IsBlocking,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
