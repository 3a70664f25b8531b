package analyzer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// violationsFile is the on-disk shape produced by the external rule checker.
type violationsFile struct {
	Violations []Violation `yaml:"violations" json:"violations"`
}

// LoadViolations reads a violations file written by the external scraper or
// rule checker. JSON files are detected by extension; everything else is
// parsed as YAML. Each record must carry a rule_id and, if present, a valid
// severity; the rest of the engine assumes dispatch is always possible.
func LoadViolations(path string) ([]Violation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file violationsFile
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &file)
	} else {
		err = yaml.Unmarshal(data, &file)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	for i := range file.Violations {
		v := &file.Violations[i]
		if strings.TrimSpace(v.RuleID) == "" {
			return nil, fmt.Errorf("%s: violation %d has no rule_id", filepath.Base(path), i)
		}
		if v.Severity != "" {
			if _, ok := ParseSeverity(v.Severity); !ok {
				return nil, fmt.Errorf("%s: violation %d has unknown severity %q", filepath.Base(path), i, v.Severity)
			}
		}
	}
	return file.Violations, nil
}
