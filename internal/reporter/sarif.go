package reporter

import (
	"encoding/json"
	"io"

	"github.com/ppiankov/sitespectre/internal/analyzer"
)

// FormatSARIF is the SARIF output format constant.
const FormatSARIF Format = "sarif"

// SARIF v2.1.0 types, the minimal subset for GitHub Security integration.

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
	Name           string                     `json:"name"`
	Version        string                     `json:"version,omitempty"`
	InformationURI string                     `json:"informationUri,omitempty"`
	Rules          []sarifReportingDescriptor `json:"rules,omitempty"`
}

type sarifReportingDescriptor struct {
	ID               string             `json:"id"`
	ShortDescription sarifMessage       `json:"shortDescription"`
	DefaultConfig    sarifDefaultConfig `json:"defaultConfiguration,omitempty"`
}

type sarifDefaultConfig struct {
	Level string `json:"level"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation *sarifPhysicalLocation `json:"physicalLocation,omitempty"`
	LogicalLocations []sarifLogicalLocation `json:"logicalLocations,omitempty"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifLogicalLocation struct {
	FullyQualifiedName string `json:"fullyQualifiedName"`
	Kind               string `json:"kind,omitempty"`
}

// sarifRules defines the SARIF rule descriptors for each issue category.
var sarifRules = map[analyzer.Category]sarifReportingDescriptor{
	analyzer.CategoryCookieConsent:   {ID: "COOKIE_CONSENT", ShortDescription: sarifMessage{Text: "Missing GDPR-compliant cookie consent mechanism"}, DefaultConfig: sarifDefaultConfig{Level: "error"}},
	analyzer.CategoryMissingAlt:      {ID: "MISSING_ALT_TEXT", ShortDescription: sarifMessage{Text: "Images without alternative text"}, DefaultConfig: sarifDefaultConfig{Level: "error"}},
	analyzer.CategoryUnlabeledInputs: {ID: "UNLABELED_INPUTS", ShortDescription: sarifMessage{Text: "Form inputs without accessible labels"}, DefaultConfig: sarifDefaultConfig{Level: "error"}},
	analyzer.CategoryKeyboardAccess:  {ID: "KEYBOARD_ACCESS", ShortDescription: sarifMessage{Text: "Interactive elements not keyboard accessible"}, DefaultConfig: sarifDefaultConfig{Level: "error"}},
	analyzer.CategoryNoHTTPS:         {ID: "NO_HTTPS", ShortDescription: sarifMessage{Text: "Page not served over HTTPS"}, DefaultConfig: sarifDefaultConfig{Level: "error"}},
	analyzer.CategoryGeneric:         {ID: "GENERIC", ShortDescription: sarifMessage{Text: "General compliance issue"}, DefaultConfig: sarifDefaultConfig{Level: "warning"}},
}

func sarifLevel(s analyzer.Severity) string {
	switch s {
	case analyzer.SeverityCritical, analyzer.SeverityHigh:
		return "error"
	case analyzer.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}

func writeSARIF(w io.Writer, report Report) error {
	seen := make(map[analyzer.Category]bool)
	var rules []sarifReportingDescriptor
	results := make([]sarifResult, 0, len(report.Issues))

	for i := range report.Issues {
		issue := &report.Issues[i]
		rule, ok := sarifRules[issue.Category]
		if !ok {
			rule = sarifRules[analyzer.CategoryGeneric]
		}
		if !seen[issue.Category] {
			seen[issue.Category] = true
			rules = append(rules, rule)
		}

		loc := sarifLocation{
			LogicalLocations: []sarifLogicalLocation{{
				FullyQualifiedName: issue.ElementPath,
				Kind:               "element",
			}},
		}
		if report.Metadata.Page != "" {
			loc.PhysicalLocation = &sarifPhysicalLocation{
				ArtifactLocation: sarifArtifactLocation{URI: report.Metadata.Page},
			}
		}

		results = append(results, sarifResult{
			RuleID:    rule.ID,
			Level:     sarifLevel(issue.SeverityLevel),
			Message:   sarifMessage{Text: issue.IssueType + " (" + issue.RegulationReference + ")"},
			Locations: []sarifLocation{loc},
		})
	}

	log := sarifLog{
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		Version: "2.1.0",
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:           "sitespectre",
				Version:        report.Metadata.Version,
				InformationURI: "https://github.com/ppiankov/sitespectre",
				Rules:          rules,
			}},
			Results: results,
		}},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(log)
}
