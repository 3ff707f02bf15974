package scanengine

import (
	"testing"

	"github.com/Ronak-jain-afk/GitSafe/internal/model"
)

func TestDeduplicateMergesRegexAndEntropy(t *testing.T) {
	entropyVal := 4.5
	raw := []model.RawFinding{
		{RuleID: "HIGH_ENTROPY_STRING", File: "a.go", LineNo: 3, Severity: model.SeverityMedium, DetectionMethod: model.DetectionEntropy, EntropyValue: &entropyVal},
		{RuleID: "HIGH_ENTROPY_STRING", File: "a.go", LineNo: 3, Severity: model.SeverityHigh, DetectionMethod: model.DetectionRegex},
	}
	findings := deduplicate(raw, model.SeverityHigh)
	if len(findings) != 1 {
		t.Fatalf("expected 1 merged finding, got %d", len(findings))
	}
	f := findings[0]
	if f.Severity != model.SeverityHigh {
		t.Fatalf("expected merged severity to be the max (high), got %v", f.Severity)
	}
	if len(f.DetectionMethods) != 2 {
		t.Fatalf("expected both detection methods retained, got %v", f.DetectionMethods)
	}
	if f.EntropyValue == nil {
		t.Fatalf("expected entropy value to survive the merge")
	}
}

func TestDeduplicateAssignsSequentialIDs(t *testing.T) {
	raw := []model.RawFinding{
		{RuleID: "AWS_ACCESS_KEY", File: "a.go", LineNo: 1, Severity: model.SeverityCritical},
		{RuleID: "GITHUB_TOKEN", File: "b.go", LineNo: 2, Severity: model.SeverityCritical},
	}
	findings := deduplicate(raw, model.SeverityHigh)
	if findings[0].ID != "FINDING-001" || findings[1].ID != "FINDING-002" {
		t.Fatalf("expected sequential FINDING-NNN ids, got %s, %s", findings[0].ID, findings[1].ID)
	}
}

func TestDeduplicateSeverityGate(t *testing.T) {
	raw := []model.RawFinding{
		{RuleID: "STRIPE_PUBLISHABLE_KEY", File: "a.go", LineNo: 1, Severity: model.SeverityLow},
	}
	findings := deduplicate(raw, model.SeverityHigh)
	if findings[0].IsBlocking {
		t.Fatalf("a low severity finding should not be blocking when fail_on=high")
	}
}

func TestDeduplicateKeyIncludesLineNo(t *testing.T) {
	raw := []model.RawFinding{
		{RuleID: "AWS_ACCESS_KEY", File: "a.go", LineNo: 1, Severity: model.SeverityCritical},
		{RuleID: "AWS_ACCESS_KEY", File: "a.go", LineNo: 2, Severity: model.SeverityCritical},
	}
	findings := deduplicate(raw, model.SeverityHigh)
	if len(findings) != 2 {
		t.Fatalf("expected distinct findings for distinct line numbers, got %d", len(findings))
	}
}
