package analyzer

import "testing"

func TestParseCategory(t *testing.T) {
	tests := []struct {
		ruleID string
		want   Category
	}{
		{ruleID: "gdpr_cookie_consent", want: CategoryCookieConsent},
		{ruleID: "wcag_missing_alt", want: CategoryMissingAlt},
		{ruleID: "wcag_unlabeled_inputs", want: CategoryUnlabeledInputs},
		{ruleID: "ada_keyboard_nav", want: CategoryKeyboardAccess},
		{ruleID: "security_no_https", want: CategoryNoHTTPS},
		{ruleID: "SECURITY_NO_HTTPS", want: CategoryNoHTTPS},
		{ruleID: "seo_missing_meta", want: CategoryGeneric},
		{ruleID: "completely made up", want: CategoryGeneric},
	}

	for _, tc := range tests {
		if got := ParseCategory(tc.ruleID); got != tc.want {
			t.Errorf("ParseCategory(%q) = %s, want %s", tc.ruleID, got, tc.want)
		}
	}
}

func TestParseSeverity(t *testing.T) {
	if s, ok := ParseSeverity(" Critical "); !ok || s != SeverityCritical {
		t.Errorf("ParseSeverity(Critical) = %q, %v", s, ok)
	}
	if _, ok := ParseSeverity("urgent"); ok {
		t.Error("expected unknown severity to fail")
	}
}

func TestMaxSeverity(t *testing.T) {
	issues := []MappedIssue{
		{SeverityLevel: SeverityMedium},
		{SeverityLevel: SeverityCritical},
		{SeverityLevel: SeverityLow},
	}
	if got := MaxSeverity(issues); got != SeverityCritical {
		t.Errorf("MaxSeverity = %s, want critical", got)
	}
	if got := MaxSeverity(nil); got != SeverityLow {
		t.Errorf("MaxSeverity(empty) = %s, want low", got)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		severity Severity
		want     int
	}{
		{SeverityCritical, 3},
		{SeverityHigh, 2},
		{SeverityMedium, 1},
		{SeverityLow, 0},
	}
	for _, tc := range tests {
		if got := ExitCode(tc.severity); got != tc.want {
			t.Errorf("ExitCode(%s) = %d, want %d", tc.severity, got, tc.want)
		}
	}
}

func TestBusinessImpact_FixedTable(t *testing.T) {
	if got := BusinessImpact(SeverityCritical); got != "Legal liability, potential lawsuits, immediate compliance action required" {
		t.Errorf("unexpected critical impact: %q", got)
	}
	if got := BusinessImpact(Severity("bogus")); got != businessImpact[SeverityMedium] {
		t.Errorf("unknown severity should fall back to medium impact, got %q", got)
	}
}
