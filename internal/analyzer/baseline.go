package analyzer

import (
	"encoding/json"
	"os"
)

// BaselineStatus indicates whether an issue is new, resolved, or unchanged.
type BaselineStatus string

const (
	StatusNew       BaselineStatus = "new"
	StatusResolved  BaselineStatus = "resolved"
	StatusUnchanged BaselineStatus = "unchanged"
)

// BaselineIssue wraps a MappedIssue with a diff status against a baseline.
type BaselineIssue struct {
	MappedIssue
	Status BaselineStatus `json:"status"`
}

// baselineReport is the minimal structure needed to load a previous JSON report.
type baselineReport struct {
	Issues []MappedIssue `json:"issues"`
}

// LoadBaseline reads a previous JSON report file and returns its issues.
func LoadBaseline(path string) ([]MappedIssue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var report baselineReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, err
	}
	return report.Issues, nil
}

// DiffBaseline compares current issues against baseline issues.
// Returns tagged issues with status new/resolved/unchanged.
func DiffBaseline(current, baseline []MappedIssue) []BaselineIssue {
	baselineSet := make(map[string]bool)
	for i := range baseline {
		baselineSet[issueKey(&baseline[i])] = true
	}

	currentSet := make(map[string]bool)
	for i := range current {
		currentSet[issueKey(&current[i])] = true
	}

	var result []BaselineIssue

	// Current issues: new or unchanged.
	for i := range current {
		status := StatusNew
		if baselineSet[issueKey(&current[i])] {
			status = StatusUnchanged
		}
		result = append(result, BaselineIssue{MappedIssue: current[i], Status: status})
	}

	// Baseline issues absent from the current run: resolved.
	for i := range baseline {
		if !currentSet[issueKey(&baseline[i])] {
			result = append(result, BaselineIssue{MappedIssue: baseline[i], Status: StatusResolved})
		}
	}

	return result
}

// issueKey identifies an issue across runs. The issue text carries match
// counts, so a page that gains or loses offending elements registers as a
// change rather than silently matching.
func issueKey(i *MappedIssue) string {
	return string(i.Category) + "|" + i.ElementSelector + "|" + i.IssueType
}
