package analyzer

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// IgnoreRule matches issues to suppress.
type IgnoreRule struct {
	Category string // category constant or "*" for any
	Selector string // element selector, trailing "*" glob, or "*" for any
}

// IgnoreList holds parsed ignore rules.
type IgnoreList struct {
	Rules []IgnoreRule
}

// LoadIgnoreFile reads a .sitespectreignore file from the given directory.
// Returns an empty list if the file doesn't exist.
func LoadIgnoreFile(dir string) (IgnoreList, error) {
	path := filepath.Join(dir, ".sitespectreignore")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return IgnoreList{}, nil
		}
		return IgnoreList{}, err
	}
	defer func() { _ = f.Close() }()

	var rules []IgnoreRule
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rule, ok := parseIgnoreRule(line)
		if ok {
			rules = append(rules, rule)
		}
	}
	return IgnoreList{Rules: rules}, sc.Err()
}

// parseIgnoreRule parses a single ignore rule line.
// Format: CATEGORY selector
// Examples:
//
//	MISSING_ALT_TEXT #decorative-hero
//	KEYBOARD_ACCESS a.js-menu
//	* body
func parseIgnoreRule(line string) (IgnoreRule, bool) {
	parts := strings.Fields(line)
	if len(parts) != 2 {
		return IgnoreRule{}, false
	}
	return IgnoreRule{
		Category: strings.ToUpper(parts[0]),
		Selector: parts[1],
	}, true
}

// Filter removes suppressed issues. Returns the kept issues and the number
// suppressed.
func (l IgnoreList) Filter(issues []MappedIssue) ([]MappedIssue, int) {
	if len(l.Rules) == 0 {
		return issues, 0
	}
	kept := make([]MappedIssue, 0, len(issues))
	for i := range issues {
		if l.matches(&issues[i]) {
			continue
		}
		kept = append(kept, issues[i])
	}
	return kept, len(issues) - len(kept)
}

func (l IgnoreList) matches(issue *MappedIssue) bool {
	for _, r := range l.Rules {
		if r.Category != "*" && r.Category != string(issue.Category) {
			continue
		}
		if !matchGlob(r.Selector, issue.ElementSelector) {
			continue
		}
		return true
	}
	return false
}

// matchGlob checks if pattern matches value. Supports trailing "*" only.
func matchGlob(pattern, value string) bool {
	if pattern == "*" {
		return true
	}
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(value, pattern[:len(pattern)-1])
	}
	return pattern == value
}
