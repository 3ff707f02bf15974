package scanengine

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/Ronak-jain-afk/GitSafe/internal/model"
)

type dedupKey struct {
	ruleID string
	file   string
	lineNo int
}

// deduplicate collapses raw findings into Findings keyed by (rule id,
// file, line). When regex and entropy both fire on the same key, the
// result carries every detection method and the highest severity
// seen. Finding ids are assigned in raw-finding arrival order, which
// is deterministic because the scan loop itself is single-threaded.
func deduplicate(raw []model.RawFinding, failOn model.Severity) []model.Finding {
	merged := make(map[dedupKey]*model.Finding)
	var order []dedupKey
	counter := 0

	for _, r := range raw {
		key := dedupKey{r.RuleID, r.File, r.LineNo}

		if existing, ok := merged[key]; ok {
			if !existing.HasDetectionMethod(r.DetectionMethod) {
				existing.DetectionMethods = append(existing.DetectionMethods, r.DetectionMethod)
			}
			if r.Severity > existing.Severity {
				existing.Severity = r.Severity
				existing.IsBlocking = existing.Severity.AtOrAbove(failOn)
			}
			if r.EntropyValue != nil {
				existing.EntropyValue = r.EntropyValue
			}
			continue
		}

		counter++
		finding := &model.Finding{
			ID:               fmt.Sprintf("FINDING-%03d", counter),
			Fingerprint:      fingerprint(r.RuleID, r.File, r.LineNo),
			RuleID:           r.RuleID,
			RuleName:         r.RuleName,
			Severity:         r.Severity,
			Category:         r.Category,
			File:             r.File,
			LineNo:           r.LineNo,
			MatchedValue:     r.MatchedValue,
			Description:      r.Description,
			DetectionMethods: []model.DetectionMethod{r.DetectionMethod},
			EntropyValue:     r.EntropyValue,
			Commit:           r.Commit,
			IsBlocking:       r.Severity.AtOrAbove(failOn),
		}
		merged[key] = finding
		order = append(order, key)
	}

	out := make([]model.Finding, 0, len(order))
	for _, key := range order {
		out = append(out, *merged[key])
	}
	return out
}

// fingerprint derives a stable identity for a (rule, file, line) key,
// independent of arrival order, for consumers — GitLab's Code Quality
// report, SARIF's partial fingerprints — that need the same finding to
// carry the same identity across separate scan runs.
func fingerprint(ruleID, file string, lineNo int) string {
	h := xxhash.New()
	_, _ = h.Write([]byte(ruleID))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(file))
	_, _ = h.Write([]byte{0})
	_, _ = fmt.Fprintf(h, "%d", lineNo)
	return fmt.Sprintf("%016x", h.Sum64())
}
