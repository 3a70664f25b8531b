package analyzer

import "strings"

// Severity indicates the compliance risk of an issue.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// ParseSeverity validates a severity string from external input.
func ParseSeverity(s string) (Severity, bool) {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SeverityCritical:
		return SeverityCritical, true
	case SeverityHigh:
		return SeverityHigh, true
	case SeverityMedium:
		return SeverityMedium, true
	case SeverityLow:
		return SeverityLow, true
	}
	return "", false
}

// SeverityRank orders severities, most severe first (critical = 0).
func SeverityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	default:
		return 3
	}
}

// Category identifies the kind of rule violation. The set is closed: every
// raw rule identifier is translated exactly once at the intake boundary and
// all downstream dispatch switches over these constants.
type Category string

const (
	CategoryCookieConsent   Category = "COOKIE_CONSENT"
	CategoryMissingAlt      Category = "MISSING_ALT_TEXT"
	CategoryUnlabeledInputs Category = "UNLABELED_INPUTS"
	CategoryKeyboardAccess  Category = "KEYBOARD_ACCESS"
	CategoryNoHTTPS         Category = "NO_HTTPS"
	CategoryGeneric         Category = "GENERIC"
)

// Categories lists every known category, generic fallback last.
func Categories() []Category {
	return []Category{
		CategoryCookieConsent,
		CategoryMissingAlt,
		CategoryUnlabeledInputs,
		CategoryKeyboardAccess,
		CategoryNoHTTPS,
		CategoryGeneric,
	}
}

// ParseCategory maps a raw rule identifier from the external checker to a
// category. Unrecognized identifiers fall through to the generic category;
// the mapper never rejects a rule it does not know.
func ParseCategory(ruleID string) Category {
	id := strings.ToLower(strings.TrimSpace(ruleID))
	switch {
	case strings.Contains(id, "gdpr_cookie"):
		return CategoryCookieConsent
	case strings.Contains(id, "wcag_missing_alt"):
		return CategoryMissingAlt
	case strings.Contains(id, "wcag_unlabeled_inputs"):
		return CategoryUnlabeledInputs
	case strings.Contains(id, "ada_keyboard"):
		return CategoryKeyboardAccess
	case strings.Contains(id, "security_no_https"):
		return CategoryNoHTTPS
	default:
		return CategoryGeneric
	}
}

// Violation is a raw detection produced by the external rule checker. The
// engine trusts it as-is: only RuleID is required, everything else refines
// the mapping.
type Violation struct {
	RuleID      string `yaml:"rule_id" json:"rule_id"`
	Severity    string `yaml:"severity,omitempty" json:"severity,omitempty"`
	Selector    string `yaml:"selector,omitempty" json:"selector,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Regulation  string `yaml:"regulation,omitempty" json:"regulation,omitempty"`
}

// Category resolves the violation's rule identifier to a dispatch category.
func (v *Violation) Category() Category {
	return ParseCategory(v.RuleID)
}

// MappedIssue is a violation located in the document and bound to a
// regulation, ready for prioritization and reporting.
type MappedIssue struct {
	Category            Category `json:"category"`
	ElementType         string   `json:"element_type"`
	ElementPath         string   `json:"element_path"`
	ElementSelector     string   `json:"element_selector"`
	IssueType           string   `json:"issue_type"`
	RegulationReference string   `json:"regulation_reference"`
	SeverityLevel       Severity `json:"severity_level"`
	BusinessImpact      string   `json:"business_impact"`
	FixPriority         int      `json:"fix_priority"`
	EstimatedFixTime    string   `json:"estimated_fix_time"`
}

// MaxSeverity returns the highest severity in a list of issues.
// Returns SeverityLow if the list is empty.
func MaxSeverity(issues []MappedIssue) Severity {
	max := SeverityLow
	for i := range issues {
		if SeverityRank(issues[i].SeverityLevel) < SeverityRank(max) {
			max = issues[i].SeverityLevel
		}
	}
	return max
}

// ExitCode maps severity to a process exit code for CI gating.
func ExitCode(s Severity) int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	default:
		return 0
	}
}
