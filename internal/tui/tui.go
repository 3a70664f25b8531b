package tui

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ppiankov/sitespectre/internal/analyzer"
	"github.com/ppiankov/sitespectre/internal/reporter"
)

const (
	defaultWidth  = 120
	defaultHeight = 32
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)
	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("81"))
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208"))
	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)
	citeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

// Input contains all data needed to render the interactive UI.
type Input struct {
	Report reporter.Report
}

// Run launches the interactive issue explorer.
func Run(input *Input) error {
	m := newModel(input)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

type sortMode int

const (
	sortBySeverity sortMode = iota
	sortByPriority
	sortByCategory
)

func (s sortMode) String() string {
	switch s {
	case sortByPriority:
		return "priority"
	case sortByCategory:
		return "category"
	default:
		return "severity"
	}
}

func (s sortMode) next() sortMode {
	switch s {
	case sortBySeverity:
		return sortByPriority
	case sortByPriority:
		return sortByCategory
	default:
		return sortBySeverity
	}
}

type issueEntry struct {
	id    int
	issue analyzer.MappedIssue
}

type severitySummary struct {
	total    int
	critical int
	high     int
	medium   int
	low      int
}

type model struct {
	metadata reporter.Metadata
	score    int

	entries  []issueEntry
	filtered []issueEntry

	sortMode sortMode

	table  table.Model
	filter textinput.Model
	detail viewport.Model

	filtering  bool
	detailMode bool

	status string
	width  int
	height int
}

func newModel(input *Input) *model {
	entries := make([]issueEntry, len(input.Report.Issues))
	for i := range input.Report.Issues {
		entries[i] = issueEntry{
			id:    i,
			issue: input.Report.Issues[i],
		}
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "SEV", Width: 8},
			{Title: "CATEGORY", Width: 20},
			{Title: "ELEMENT", Width: 28},
			{Title: "ISSUE", Width: 60},
		}),
		table.WithRows(nil),
		table.WithHeight(16),
		table.WithFocused(true),
	)
	tableStyles := table.DefaultStyles()
	tableStyles.Header = tableStyles.Header.Bold(true)
	tableStyles.Selected = tableStyles.Selected.
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("62")).
		Bold(true)
	t.SetStyles(tableStyles)

	filterInput := textinput.New()
	filterInput.Prompt = ""
	filterInput.Placeholder = "category/severity/element"
	filterInput.CharLimit = 128
	filterInput.Width = 64

	vp := viewport.New(100, 18)

	m := &model{
		metadata: input.Report.Metadata,
		score:    input.Report.ComplianceScore,
		entries:  entries,
		sortMode: sortBySeverity,
		table:    t,
		filter:   filterInput,
		detail:   vp,
		status:   "Use j/k or arrows to navigate. Enter details, / filter, s sort, e export, q quit.",
		width:    defaultWidth,
		height:   defaultHeight,
	}

	m.refreshRows()
	m.resizeLayout()
	return m
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		m.resizeLayout()
		return m, nil
	case tea.KeyMsg:
		if m.detailMode {
			return m.updateDetailKey(typed)
		}
		return m.updateListKey(typed)
	default:
		if m.detailMode {
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
}

func (m *model) updateListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	}

	if m.filtering {
		switch msg.String() {
		case "enter", "esc":
			m.filtering = false
			m.filter.Blur()
			m.status = fmt.Sprintf("Filter applied (%d issues)", len(m.filtered))
			return m, nil
		}
		prev := m.filter.Value()
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		if prev != m.filter.Value() {
			m.refreshRows()
		}
		return m, cmd
	}

	switch msg.String() {
	case "/":
		m.filtering = true
		m.filter.Focus()
		m.status = "Filter mode: type to narrow issues, then Enter/Esc."
		return m, nil
	case "s":
		m.sortMode = m.sortMode.next()
		m.refreshRows()
		m.status = fmt.Sprintf("Sorted by %s", m.sortMode.String())
		return m, nil
	case "e":
		path, err := m.exportFiltered()
		if err != nil {
			m.status = fmt.Sprintf("export failed: %v", err)
		} else {
			m.status = fmt.Sprintf("Exported %d issues to %s", len(m.filtered), path)
		}
		return m, nil
	case "enter":
		if _, ok := m.selectedEntry(); !ok {
			return m, nil
		}
		m.detailMode = true
		m.setDetailContent()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *model) updateDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc", "b", "enter":
		m.detailMode = false
		m.status = "Back to issue list"
		return m, nil
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m *model) resizeLayout() {
	if m.width <= 0 {
		m.width = defaultWidth
	}
	if m.height <= 0 {
		m.height = defaultHeight
	}

	usable := m.width - 8
	if usable < 72 {
		usable = 72
	}

	sevWidth := 8
	categoryWidth := 20
	elementWidth := 28
	issueWidth := usable - sevWidth - categoryWidth - elementWidth
	if issueWidth < 20 {
		issueWidth = 20
	}

	cols := []table.Column{
		{Title: "SEV", Width: sevWidth},
		{Title: "CATEGORY", Width: categoryWidth},
		{Title: "ELEMENT", Width: elementWidth},
		{Title: "ISSUE", Width: issueWidth},
	}
	m.table.SetColumns(cols)

	tableHeight := m.height - 10
	if tableHeight < 8 {
		tableHeight = 8
	}
	m.table.SetHeight(tableHeight)

	filterWidth := m.width - 28
	if filterWidth < 24 {
		filterWidth = 24
	}
	m.filter.Width = filterWidth

	m.detail.Width = m.width - 4
	if m.detail.Width < 48 {
		m.detail.Width = 48
	}
	m.detail.Height = m.height - 6
	if m.detail.Height < 8 {
		m.detail.Height = 8
	}
	if m.detailMode {
		m.setDetailContent()
	}
}

func (m *model) refreshRows() {
	query := strings.TrimSpace(m.filter.Value())

	filtered := make([]issueEntry, 0, len(m.entries))
	for i := range m.entries {
		if matchesFilter(&m.entries[i].issue, query) {
			filtered = append(filtered, m.entries[i])
		}
	}

	sortEntries(filtered, m.sortMode)
	m.filtered = filtered

	rows := make([]table.Row, 0, len(filtered))
	for i := range filtered {
		issue := filtered[i].issue
		rows = append(rows, table.Row{
			strings.ToUpper(string(issue.SeverityLevel)),
			string(issue.Category),
			issue.ElementSelector,
			truncateText(issue.IssueType, 140),
		})
	}
	m.table.SetRows(rows)
	if len(rows) == 0 {
		m.table.SetCursor(0)
		return
	}
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m *model) selectedEntry() (issueEntry, bool) {
	if len(m.filtered) == 0 {
		return issueEntry{}, false
	}
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.filtered) {
		return issueEntry{}, false
	}
	return m.filtered[idx], true
}

func (m *model) setDetailContent() {
	entry, ok := m.selectedEntry()
	if !ok {
		m.detail.SetContent("No issue selected.")
		return
	}
	m.detail.SetContent(renderDetail(&entry.issue))
	m.detail.GotoTop()
}

func (m *model) View() string {
	if m.detailMode {
		return m.detailView()
	}
	return m.listView()
}

func (m *model) listView() string {
	summary := summarizeEntries(m.filtered)
	header := fmt.Sprintf(
		"sitespectre interactive | issues %d/%d | score:%d | critical:%d high:%d medium:%d low:%d | sort:%s",
		len(m.filtered), len(m.entries), m.score,
		summary.critical, summary.high, summary.medium, summary.low, m.sortMode.String(),
	)

	filterLabel := "Filter (/): "
	if m.filtering {
		filterLabel = "Filter (editing): "
	}
	filterRow := sectionStyle.Render(filterLabel) + m.filter.View()

	body := m.table.View()
	if len(m.filtered) == 0 {
		body = warnStyle.Render("No issues match the current filter.")
	}

	footer := statusStyle.Render(m.status)

	return strings.Join([]string{
		headerStyle.Render(header),
		filterRow,
		body,
		footer,
	}, "\n")
}

func (m *model) detailView() string {
	entry, ok := m.selectedEntry()
	title := "Issue Detail"
	if ok {
		title = fmt.Sprintf(
			"Issue Detail | %s | %s",
			entry.issue.Category, strings.ToUpper(string(entry.issue.SeverityLevel)),
		)
	}

	return strings.Join([]string{
		headerStyle.Render(title),
		m.detail.View(),
		statusStyle.Render("Up/Down scroll, PgUp/PgDn page, b or Esc back, q quit"),
	}, "\n")
}

func summarizeEntries(entries []issueEntry) severitySummary {
	var out severitySummary
	for i := range entries {
		out.total++
		switch entries[i].issue.SeverityLevel {
		case analyzer.SeverityCritical:
			out.critical++
		case analyzer.SeverityHigh:
			out.high++
		case analyzer.SeverityMedium:
			out.medium++
		default:
			out.low++
		}
	}
	return out
}

func matchesFilter(issue *analyzer.MappedIssue, query string) bool {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return true
	}
	haystack := strings.ToLower(strings.Join([]string{
		string(issue.Category),
		string(issue.SeverityLevel),
		issue.ElementType,
		issue.ElementSelector,
		issue.ElementPath,
		issue.IssueType,
		issue.RegulationReference,
	}, " "))
	for _, token := range strings.Fields(query) {
		if !strings.Contains(haystack, token) {
			return false
		}
	}
	return true
}

func sortEntries(entries []issueEntry, mode sortMode) {
	sort.SliceStable(entries, func(i, j int) bool {
		a := entries[i].issue
		b := entries[j].issue

		switch mode {
		case sortByPriority:
			if a.FixPriority != b.FixPriority {
				return a.FixPriority < b.FixPriority
			}
		case sortByCategory:
			if a.Category != b.Category {
				return a.Category < b.Category
			}
		default:
			if analyzer.SeverityRank(a.SeverityLevel) != analyzer.SeverityRank(b.SeverityLevel) {
				return analyzer.SeverityRank(a.SeverityLevel) < analyzer.SeverityRank(b.SeverityLevel)
			}
		}

		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.ElementSelector != b.ElementSelector {
			return a.ElementSelector < b.ElementSelector
		}
		return entries[i].id < entries[j].id
	})
}

func truncateText(s string, max int) string {
	if max <= 3 {
		return s
	}
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func renderDetail(issue *analyzer.MappedIssue) string {
	var b strings.Builder

	_, _ = fmt.Fprintf(&b, "%s\n", sectionStyle.Render("Overview"))
	_, _ = fmt.Fprintf(&b, "Category: %s\n", issue.Category)
	_, _ = fmt.Fprintf(&b, "Severity: %s\n", strings.ToUpper(string(issue.SeverityLevel)))
	_, _ = fmt.Fprintf(&b, "Issue: %s\n", issue.IssueType)

	_, _ = fmt.Fprintf(&b, "\n%s\n", sectionStyle.Render("Element"))
	_, _ = fmt.Fprintf(&b, "Type: %s\n", issue.ElementType)
	_, _ = fmt.Fprintf(&b, "Path: %s\n", pathStyle.Render(issue.ElementPath))
	_, _ = fmt.Fprintf(&b, "Selector: %s\n", issue.ElementSelector)

	_, _ = fmt.Fprintf(&b, "\n%s\n", sectionStyle.Render("Regulation"))
	_, _ = fmt.Fprintf(&b, "Reference: %s\n", citeStyle.Render(issue.RegulationReference))
	_, _ = fmt.Fprintf(&b, "Business impact: %s\n", issue.BusinessImpact)

	_, _ = fmt.Fprintf(&b, "\n%s\n", sectionStyle.Render("Remediation"))
	_, _ = fmt.Fprintf(&b, "Fix priority: %d\n", issue.FixPriority)
	_, _ = fmt.Fprintf(&b, "Estimated fix time: %s\n", issue.EstimatedFixTime)
	_, _ = fmt.Fprintln(&b, suggestionForIssue(issue))

	return b.String()
}

func suggestionForIssue(issue *analyzer.MappedIssue) string {
	switch issue.Category {
	case analyzer.CategoryCookieConsent:
		return "Add a consent banner that blocks non-essential cookies until the visitor opts in."
	case analyzer.CategoryMissingAlt:
		return "Write alt text that conveys each image's purpose; use alt=\"\" only for decorative images."
	case analyzer.CategoryUnlabeledInputs:
		return "Associate every input with a label element or add an aria-label attribute."
	case analyzer.CategoryKeyboardAccess:
		return "Give interactive elements an href or a non-negative tabindex and verify tab order."
	case analyzer.CategoryNoHTTPS:
		return "Install a TLS certificate and redirect all plain HTTP traffic to HTTPS."
	default:
		return "Review this issue against the cited regulation, then apply and validate the minimal safe fix."
	}
}

func (m *model) exportFiltered() (string, error) {
	issues := make([]analyzer.MappedIssue, len(m.filtered))
	for i := range m.filtered {
		issues[i] = m.filtered[i].issue
	}
	report := reporter.NewReport(issues)
	report.Metadata = m.metadata
	report.Metadata.Timestamp = time.Now().UTC().Format(time.RFC3339)

	filename := fmt.Sprintf("sitespectre-issues-%s.json", time.Now().UTC().Format("20060102-150405"))
	path := filepath.Clean(filename)

	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal export: %w", err)
	}
	payload = append(payload, '\n')
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}

	return path, nil
}
