package analyzer

import "testing"

func TestRegulations(t *testing.T) {
	families := Regulations()
	if len(families) != 3 {
		t.Fatalf("expected 3 families, got %d", len(families))
	}
	if families[0].Name != "GDPR" || families[1].Name != "WCAG 2.1" || families[2].Name != "ADA Title III" {
		t.Errorf("unexpected family order: %v", families)
	}
	if len(families[1].Citations) != 7 {
		t.Errorf("WCAG table has %d entries, want 7", len(families[1].Citations))
	}
	// Citations are sorted by key for stable output.
	wcag := families[1].Citations
	for i := 1; i < len(wcag); i++ {
		if wcag[i].Key < wcag[i-1].Key {
			t.Fatalf("citations not sorted: %v", wcag)
		}
	}
}

func TestMappingFor_UnknownCategory(t *testing.T) {
	m := mappingFor(Category("NOT_A_CATEGORY"))
	if m.elementType != "General Compliance" || m.priority != 4 {
		t.Errorf("unknown category should map to the generic branch, got %+v", m)
	}
}

func TestMappings_PrioritiesTrackSeverity(t *testing.T) {
	// Sorting by priority must yield severity-descending order for the
	// default (unhinted) mappings: critical=1 < high=2,3 < medium=4.
	for cat, m := range mappings {
		switch m.severity {
		case SeverityCritical:
			if m.priority != 1 {
				t.Errorf("%s: critical branch has priority %d", cat, m.priority)
			}
		case SeverityHigh:
			if m.priority != 2 && m.priority != 3 {
				t.Errorf("%s: high branch has priority %d", cat, m.priority)
			}
		case SeverityMedium:
			if m.priority != 4 {
				t.Errorf("%s: medium branch has priority %d", cat, m.priority)
			}
		}
	}
}
