package analyzer

import "sort"

// Citation tables are fixed reference data keyed by short citation name.
// They never change during a run; handlers and the regulations command read
// them, nothing writes them.
var (
	gdprArticles = map[string]string{
		"Article 7":  "Conditions for consent",
		"Article 13": "Information to be provided where data collected from data subject",
		"Article 25": "Data protection by design and by default",
		"Article 32": "Security of processing",
	}

	wcagCriteria = map[string]string{
		"1.1.1": "Non-text Content (Alternative text)",
		"1.3.1": "Info and Relationships (Headings, labels)",
		"1.4.3": "Contrast (Minimum)",
		"2.1.1": "Keyboard navigation",
		"2.4.4": "Link Purpose (In Context)",
		"3.3.2": "Labels or Instructions",
		"4.1.2": "Name, Role, Value (ARIA)",
	}

	adaStandards = map[string]string{
		"Section 508":    "Electronic accessibility standards",
		"DOJ Guidelines": "Digital accessibility requirements",
	}
)

// businessImpact maps severity to consequence language. The mapper and the
// reporter both read this table so severity wording stays consistent.
var businessImpact = map[Severity]string{
	SeverityCritical: "Legal liability, potential lawsuits, immediate compliance action required",
	SeverityHigh:     "Significant user accessibility barriers, compliance violations",
	SeverityMedium:   "User experience issues, potential compliance gaps",
	SeverityLow:      "Minor usability issues, best practice improvements",
}

// BusinessImpact returns the consequence language for a severity level.
func BusinessImpact(s Severity) string {
	if impact, ok := businessImpact[s]; ok {
		return impact
	}
	return businessImpact[SeverityMedium]
}

// genericCitation is the fallback for rules outside the known families.
const genericCitation = "General compliance requirements"

// mapping holds the fixed per-category constants: what kind of element the
// category concerns, the citation it violates, and the remediation defaults
// applied when the violation carries no explicit severity.
type mapping struct {
	elementType string
	citation    string
	severity    Severity
	priority    int
	fixTime     string
}

var mappings = map[Category]mapping{
	CategoryCookieConsent: {
		elementType: "Cookie Consent Banner",
		citation:    "GDPR Article 7 - Conditions for consent",
		severity:    SeverityCritical,
		priority:    1,
		fixTime:     "1-2 days",
	},
	CategoryMissingAlt: {
		elementType: "Image Elements",
		citation:    "WCAG 2.1 Success Criterion 1.1.1 - Non-text Content",
		severity:    SeverityHigh,
		priority:    2,
		fixTime:     "2-4 hours",
	},
	CategoryUnlabeledInputs: {
		elementType: "Form Input Elements",
		citation:    "WCAG 2.1 Success Criterion 1.3.1 - Info and Relationships",
		severity:    SeverityHigh,
		priority:    2,
		fixTime:     "1-3 hours",
	},
	CategoryKeyboardAccess: {
		elementType: "Interactive Elements",
		citation:    "WCAG 2.1 Success Criterion 2.1.1 - Keyboard",
		severity:    SeverityHigh,
		priority:    3,
		fixTime:     "2-6 hours",
	},
	CategoryNoHTTPS: {
		elementType: "Protocol Security",
		citation:    "GDPR Article 32 - Security of processing",
		severity:    SeverityCritical,
		priority:    1,
		fixTime:     "1 day (certificate setup)",
	},
	CategoryGeneric: {
		elementType: "General Compliance",
		citation:    genericCitation,
		severity:    SeverityMedium,
		priority:    4,
		fixTime:     "Variable",
	},
}

// mappingFor returns the per-category constants, falling back to the
// generic mapping for anything unknown.
func mappingFor(c Category) mapping {
	if m, ok := mappings[c]; ok {
		return m
	}
	return mappings[CategoryGeneric]
}

// Citation is one entry of a regulation family table.
type Citation struct {
	Key   string
	Title string
}

// RegulationFamily groups the citations of one statute or standard.
type RegulationFamily struct {
	Name      string
	Citations []Citation
}

// Regulations returns the three citation tables in display order with
// citations sorted by key.
func Regulations() []RegulationFamily {
	return []RegulationFamily{
		family("GDPR", gdprArticles),
		family("WCAG 2.1", wcagCriteria),
		family("ADA Title III", adaStandards),
	}
}

func family(name string, table map[string]string) RegulationFamily {
	citations := make([]Citation, 0, len(table))
	for key, title := range table {
		citations = append(citations, Citation{Key: key, Title: title})
	}
	sort.Slice(citations, func(i, j int) bool { return citations[i].Key < citations[j].Key })
	return RegulationFamily{Name: name, Citations: citations}
}
