package analyzer

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/sitespectre/internal/dom"
)

// ErrNilDocument is returned when MapViolations is called without a document.
var ErrNilDocument = errors.New("analyzer: nil document")

// MapViolations locates each violation in the document, binds it to a
// regulatory citation, and assigns remediation defaults. Issues come back
// sorted ascending by fix priority, ties broken by discovery order; that
// ordering is part of the engine's contract, not cosmetics.
//
// Missing elements and unknown rules degrade to root-scoped generic issues.
// Only a nil document or a violation without a rule identifier is an error.
func MapViolations(doc *dom.Document, violations []Violation) ([]MappedIssue, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}

	issues := make([]MappedIssue, 0, len(violations))
	for i := range violations {
		issue, err := mapViolation(doc, &violations[i])
		if err != nil {
			return nil, fmt.Errorf("violation %d: %w", i, err)
		}
		issues = append(issues, issue)
	}

	SortByPriority(issues)
	return issues, nil
}

// SortByPriority orders issues ascending by fix priority, keeping discovery
// order within equal priorities.
func SortByPriority(issues []MappedIssue) {
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].FixPriority < issues[j].FixPriority
	})
}

func mapViolation(doc *dom.Document, v *Violation) (MappedIssue, error) {
	if strings.TrimSpace(v.RuleID) == "" {
		return MappedIssue{}, errors.New("missing rule_id")
	}

	category := v.Category()
	m := mappingFor(category)
	loc := locate(doc, v, category)

	severity := m.severity
	if v.Severity != "" {
		parsed, ok := ParseSeverity(v.Severity)
		if !ok {
			return MappedIssue{}, fmt.Errorf("unknown severity %q", v.Severity)
		}
		severity = parsed
	}

	return MappedIssue{
		Category:            category,
		ElementType:         m.elementType,
		ElementPath:         loc.Path,
		ElementSelector:     loc.Selector,
		IssueType:           issueText(category, v, loc.Count),
		RegulationReference: citationFor(category, v),
		SeverityLevel:       severity,
		BusinessImpact:      BusinessImpact(severity),
		FixPriority:         m.priority,
		EstimatedFixTime:    m.fixTime,
	}, nil
}

// locate picks the offending element. A caller-supplied reference wins; when
// it is absent or does not resolve, each category runs its built-in search.
func locate(doc *dom.Document, v *Violation, category Category) dom.Location {
	if v.Selector != "" {
		if loc, ok := doc.Locate(v.Selector); ok {
			return loc
		}
	}

	switch category {
	case CategoryMissingAlt:
		return doc.ImagesMissingAlt()
	case CategoryUnlabeledInputs:
		return doc.UnlabeledInputs()
	case CategoryKeyboardAccess:
		return doc.KeyboardInaccessible()
	case CategoryNoHTTPS:
		return doc.HTMLRoot()
	default:
		// Consent banners and generic issues have no single offending
		// element; they bind to the page body.
		return doc.BodyRoot()
	}
}

func issueText(category Category, v *Violation, count int) string {
	switch category {
	case CategoryCookieConsent:
		return "Missing GDPR-compliant cookie consent mechanism"
	case CategoryMissingAlt:
		return fmt.Sprintf("Missing alternative text for %d images", count)
	case CategoryUnlabeledInputs:
		return fmt.Sprintf("Form inputs without proper labels: %d violations", count)
	case CategoryKeyboardAccess:
		return "Interactive elements not accessible via keyboard"
	case CategoryNoHTTPS:
		return "Website not served over HTTPS"
	default:
		if v.Description != "" {
			return v.Description
		}
		return "Compliance issue detected"
	}
}

// citationFor returns the regulation reference for an issue. The generic
// branch honors a checker-supplied citation so external rules can carry
// their own references through the report.
func citationFor(category Category, v *Violation) string {
	if category == CategoryGeneric && v.Regulation != "" {
		return v.Regulation
	}
	return mappingFor(category).citation
}
