package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/sitespectre/internal/analyzer"
)

// Format specifies the output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Severity penalty weights for the compliance score. The score starts at
// 100 and loses a fixed amount per issue, clamped at zero, so adding an
// issue can never raise it.
const (
	penaltyCritical = 25
	penaltyHigh     = 15
	penaltyMedium   = 8
	penaltyLow      = 3
)

// Remediation effort per issue in hours, by severity.
const (
	effortCritical = 8
	effortHigh     = 4
	effortMedium   = 2
	effortLow      = 1
)

const (
	hoursPerDay  = 8
	hoursPerWeek = 40
)

// Metadata identifies the audit run that produced a report.
type Metadata struct {
	RunID     string `json:"run_id"`
	Version   string `json:"version,omitempty"`
	Command   string `json:"command,omitempty"`
	Page      string `json:"page,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Breakdown counts issues by severity.
type Breakdown struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// Total returns the number of counted issues.
func (b Breakdown) Total() int {
	return b.Critical + b.High + b.Medium + b.Low
}

// Coverage counts issues per regulation family, matched on the citation text.
type Coverage struct {
	GDPR int `json:"gdpr"`
	WCAG int `json:"wcag"`
	ADA  int `json:"ada"`
}

// PriorityMatrix partitions issues into remediation buckets by severity.
// The partition is total and disjoint: every issue lands in exactly one
// bucket, and bucket order preserves the priority-sorted issue order.
type PriorityMatrix struct {
	CriticalImmediate []analyzer.MappedIssue `json:"critical_immediate"`
	HighPriority      []analyzer.MappedIssue `json:"high_priority"`
	MediumPriority    []analyzer.MappedIssue `json:"medium_priority"`
	LowPriority       []analyzer.MappedIssue `json:"low_priority"`
}

// Report holds the structured audit output.
type Report struct {
	Metadata              Metadata               `json:"metadata"`
	TotalIssues           int                    `json:"total_issues"`
	SeverityBreakdown     Breakdown              `json:"severity_breakdown"`
	ComplianceScore       int                    `json:"compliance_score"`
	RegulationCoverage    Coverage               `json:"regulation_coverage"`
	EstimatedTotalFixTime string                 `json:"estimated_total_fix_time"`
	PriorityMatrix        PriorityMatrix         `json:"priority_matrix"`
	Issues                []analyzer.MappedIssue `json:"issues"`
	MaxSeverity           analyzer.Severity      `json:"max_severity"`
}

// NewReport builds a report from mapped issues. The input is re-sorted
// (stably) by fix priority so the ordering contract holds regardless of
// caller; an empty input yields a perfect score and zero totals.
func NewReport(issues []analyzer.MappedIssue) Report {
	sorted := make([]analyzer.MappedIssue, len(issues))
	copy(sorted, issues)
	analyzer.SortByPriority(sorted)

	breakdown := countBySeverity(sorted)

	return Report{
		TotalIssues:           breakdown.Total(),
		SeverityBreakdown:     breakdown,
		ComplianceScore:       Score(breakdown),
		RegulationCoverage:    coverage(sorted),
		EstimatedTotalFixTime: totalFixTime(breakdown),
		PriorityMatrix:        buildMatrix(sorted),
		Issues:                sorted,
		MaxSeverity:           analyzer.MaxSeverity(sorted),
	}
}

// Score computes the weighted-penalty compliance score in [0, 100].
func Score(b Breakdown) int {
	penalty := b.Critical*penaltyCritical +
		b.High*penaltyHigh +
		b.Medium*penaltyMedium +
		b.Low*penaltyLow
	if penalty >= 100 {
		return 0
	}
	return 100 - penalty
}

func countBySeverity(issues []analyzer.MappedIssue) Breakdown {
	var b Breakdown
	for i := range issues {
		switch issues[i].SeverityLevel {
		case analyzer.SeverityCritical:
			b.Critical++
		case analyzer.SeverityHigh:
			b.High++
		case analyzer.SeverityMedium:
			b.Medium++
		case analyzer.SeverityLow:
			b.Low++
		}
	}
	return b
}

// coverage counts citations mentioning each regulation family. Counting is
// non-exclusive by substring, though citations are single-family in practice.
func coverage(issues []analyzer.MappedIssue) Coverage {
	var c Coverage
	for i := range issues {
		ref := issues[i].RegulationReference
		if strings.Contains(ref, "GDPR") {
			c.GDPR++
		}
		if strings.Contains(ref, "WCAG") {
			c.WCAG++
		}
		if strings.Contains(ref, "ADA") {
			c.ADA++
		}
	}
	return c
}

func buildMatrix(issues []analyzer.MappedIssue) PriorityMatrix {
	var m PriorityMatrix
	for i := range issues {
		switch issues[i].SeverityLevel {
		case analyzer.SeverityCritical:
			m.CriticalImmediate = append(m.CriticalImmediate, issues[i])
		case analyzer.SeverityHigh:
			m.HighPriority = append(m.HighPriority, issues[i])
		case analyzer.SeverityMedium:
			m.MediumPriority = append(m.MediumPriority, issues[i])
		default:
			m.LowPriority = append(m.LowPriority, issues[i])
		}
	}
	return m
}

// totalFixTime sums per-severity hour estimates and formats the total:
// hours up to one working day, days up to one working week (rounded up at
// 8h/day), weeks beyond that (rounded up at 40h/week).
func totalFixTime(b Breakdown) string {
	hours := b.Critical*effortCritical +
		b.High*effortHigh +
		b.Medium*effortMedium +
		b.Low*effortLow

	switch {
	case hours <= hoursPerDay:
		return fmt.Sprintf("%d hours", hours)
	case hours <= hoursPerWeek:
		days := (hours + hoursPerDay - 1) / hoursPerDay
		return fmt.Sprintf("%d days", days)
	default:
		weeks := (hours + hoursPerWeek - 1) / hoursPerWeek
		return fmt.Sprintf("%d weeks", weeks)
	}
}

// Write outputs the report in the given format.
func Write(w io.Writer, report Report, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, report)
	case FormatSARIF:
		return writeSARIF(w, report)
	default:
		return writeText(w, report)
	}
}

func writeJSON(w io.Writer, report Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func writeText(w io.Writer, report Report) error {
	if report.TotalIssues == 0 {
		_, err := fmt.Fprintf(w, "No issues. Compliance score %d/100.\n", report.ComplianceScore)
		return err
	}

	for _, issue := range report.Issues {
		fmt.Fprintf(w, "[%s] %s: %s (%s)\n",
			strings.ToUpper(string(issue.SeverityLevel)),
			issue.ElementType, issue.IssueType, issue.ElementSelector)
		fmt.Fprintf(w, "        %s | fix: %s\n", issue.RegulationReference, issue.EstimatedFixTime)
	}

	b := report.SeverityBreakdown
	fmt.Fprintf(w, "\nSummary: %d issues (critical=%d high=%d medium=%d low=%d)\n",
		report.TotalIssues, b.Critical, b.High, b.Medium, b.Low)
	fmt.Fprintf(w, "Compliance score: %d/100\n", report.ComplianceScore)
	fmt.Fprintf(w, "Regulation coverage: gdpr=%d wcag=%d ada=%d\n",
		report.RegulationCoverage.GDPR, report.RegulationCoverage.WCAG, report.RegulationCoverage.ADA)
	fmt.Fprintf(w, "Estimated total fix time: %s\n", report.EstimatedTotalFixTime)
	return nil
}

// WriteBaselineDiff prints baseline comparison output in text form.
func WriteBaselineDiff(w io.Writer, diff []analyzer.BaselineIssue) {
	var newCount, resolvedCount int
	for i := range diff {
		switch diff[i].Status {
		case analyzer.StatusNew:
			newCount++
			fmt.Fprintf(w, "NEW      [%s] %s\n", strings.ToUpper(string(diff[i].SeverityLevel)), diff[i].IssueType)
		case analyzer.StatusResolved:
			resolvedCount++
			fmt.Fprintf(w, "RESOLVED [%s] %s\n", strings.ToUpper(string(diff[i].SeverityLevel)), diff[i].IssueType)
		}
	}
	fmt.Fprintf(w, "Baseline diff: %d new, %d resolved, %d unchanged\n",
		newCount, resolvedCount, len(diff)-newCount-resolvedCount)
}
