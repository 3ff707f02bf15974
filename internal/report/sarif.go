package report

import (
	"encoding/json"
	"io"

	"github.com/Ronak-jain-afk/GitSafe/internal/model"
)

// SARIFFormatter renders a ScanResult as SARIF 2.1.0, the format
// GitHub code scanning and most security dashboards ingest natively.
// This output mode isn't in the distilled feature set; it's restored
// here because a CI-oriented secret scanner without SARIF is missing
// its most common integration point.
type SARIFFormatter struct {
	FullRedaction bool
}

func NewSARIFFormatter(fullRedaction bool) *SARIFFormatter {
	return &SARIFFormatter{FullRedaction: fullRedaction}
}

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name  string      `json:"name"`
	Rules []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string               `json:"id"`
	Name             string               `json:"name"`
	ShortDescription sarifText            `json:"shortDescription"`
	Properties       sarifRuleProperties   `json:"properties,omitempty"`
}

type sarifRuleProperties struct {
	Category string `json:"category,omitempty"`
}

type sarifText struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID               string            `json:"ruleId"`
	Level                string            `json:"level"`
	Message              sarifText         `json:"message"`
	Locations            []sarifLocation   `json:"locations"`
	PartialFingerprints  map[string]string `json:"partialFingerprints,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine,omitempty"`
}

func (f *SARIFFormatter) Format(w io.Writer, result *model.ScanResult) error {
	ruleSeen := make(map[string]bool)
	var rules []sarifRule
	var results []sarifResult

	for _, finding := range result.Findings {
		if !ruleSeen[finding.RuleID] {
			ruleSeen[finding.RuleID] = true
			rules = append(rules, sarifRule{
				ID:               finding.RuleID,
				Name:             finding.RuleName,
				ShortDescription: sarifText{Text: finding.Description},
				Properties:       sarifRuleProperties{Category: string(finding.Category)},
			})
		}
		results = append(results, sarifResult{
			RuleID:  finding.RuleID,
			Level:   sarifLevel(finding.Severity),
			Message: sarifText{Text: model.Redact(finding.MatchedValue, f.FullRedaction)},
			Locations: []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: finding.File},
					Region:           sarifRegion{StartLine: finding.LineNo},
				},
			}},
			PartialFingerprints: map[string]string{"gitsafe/v1": finding.Fingerprint},
		})
	}

	doc := sarifLog{
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		Version: "2.1.0",
		Runs: []sarifRun{{
			Tool:    sarifTool{Driver: sarifDriver{Name: "gitsafe", Rules: rules}},
			Results: results,
		}},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func sarifLevel(sev model.Severity) string {
	switch sev {
	case model.SeverityCritical, model.SeverityHigh:
		return "error"
	case model.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}
