package suppress

import "testing"

func TestParseInlineSuppressAll(t *testing.T) {
	ok, ids := ParseInline(`token = "x" # gitsafe-ignore`)
	if !ok || ids != nil {
		t.Fatalf("got ok=%v ids=%v, want ok=true ids=nil", ok, ids)
	}
}

func TestParseInlineScoped(t *testing.T) {
	ok, ids := ParseInline(`token = "x" #gitsafe-ignore[AWS_ACCESS_KEY,GITHUB_TOKEN]`)
	if !ok {
		t.Fatalf("expected suppression match")
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 scoped ids, got %v", ids)
	}
	if _, ok := ids["AWS_ACCESS_KEY"]; !ok {
		t.Fatalf("expected AWS_ACCESS_KEY in scope")
	}
}

func TestParseInlineNosecShorthand(t *testing.T) {
	ok, _ := ParseInline(`x = 1  # nosec`)
	if !ok {
		t.Fatalf("expected #nosec to suppress")
	}
}

func TestParseInlineNoMarker(t *testing.T) {
	ok, _ := ParseInline(`plain line of code`)
	if ok {
		t.Fatalf("expected no suppression")
	}
}

func TestSameLineSuppression(t *testing.T) {
	idx := NewIndex()
	idx.RegisterLines("a.go", []AddedLine{
		{LineNo: 1, Content: `key := "secret" # gitsafe-ignore`},
	})
	if idx.IsSuppressed("a.go", 1, "AWS_ACCESS_KEY") == nil {
		t.Fatalf("expected line 1 suppressed")
	}
}

func TestNextLineSuppressionOnlyFromPureComment(t *testing.T) {
	idx := NewIndex()
	idx.RegisterLines("a.go", []AddedLine{
		{LineNo: 1, Content: `// gitsafe-ignore`},
		{LineNo: 2, Content: `key := "AKIA0123456789ABCDEF"`},
	})
	if idx.IsSuppressed("a.go", 2, "AWS_ACCESS_KEY") == nil {
		t.Fatalf("expected line 2 suppressed by preceding standalone comment")
	}
}

func TestNextLineNotSuppressedWhenPriorLineHasCode(t *testing.T) {
	idx := NewIndex()
	idx.RegisterLines("a.go", []AddedLine{
		{LineNo: 1, Content: `key := "x" // gitsafe-ignore`}, // same-line, not a pure comment
		{LineNo: 2, Content: `other := "AKIA0123456789ABCDEF"`},
	})
	if idx.IsSuppressed("a.go", 2, "AWS_ACCESS_KEY") != nil {
		t.Fatalf("line 2 should not inherit a same-line suppression from a non-comment line")
	}
}

func TestScopedSuppressionOnlyAppliesToListedRule(t *testing.T) {
	idx := NewIndex()
	idx.RegisterLines("a.go", []AddedLine{
		{LineNo: 1, Content: `x := 1 #gitsafe-ignore[AWS_ACCESS_KEY]`},
	})
	if idx.IsSuppressed("a.go", 1, "AWS_ACCESS_KEY") == nil {
		t.Fatalf("expected AWS_ACCESS_KEY suppressed")
	}
	if idx.IsSuppressed("a.go", 1, "GITHUB_TOKEN") != nil {
		t.Fatalf("GITHUB_TOKEN should not be suppressed by a scoped comment naming another rule")
	}
}

func TestIgnoreFileGlobalAndScoped(t *testing.T) {
	f := &IgnoreFile{scoped: map[string][]string{"HARDCODED_PASSWORD": {"fixtures/**"}}}
	f.global = []string{"*.env"}

	if !f.IsIgnored("config/.env", "") {
		t.Fatalf("expected *.env to match config/.env by basename")
	}
	if !f.IsIgnored("fixtures/creds.txt", "HARDCODED_PASSWORD") {
		t.Fatalf("expected fixtures/** to match scoped to HARDCODED_PASSWORD")
	}
	if f.IsIgnored("fixtures/creds.txt", "AWS_ACCESS_KEY") {
		t.Fatalf("scoped glob should not apply to a different rule")
	}
}
