package rules

import (
	"fmt"
	"strings"
)

// Deadline is a single procedural deadline with its controlling authority.
type Deadline struct {
	Rule      string `yaml:"rule"`
	Deadline  string `yaml:"deadline"`
	Authority string `yaml:"authority"`
}

// DeadlineTable maps jurisdictions to their procedural deadlines.
// Lookup is fuzzy: "Superior Court of California" matches "California".
type DeadlineTable struct {
	entries map[string][]Deadline
	order   []string
}

// NewDeadlineTable builds a table from the default jurisdiction data.
func NewDeadlineTable() *DeadlineTable {
	t := &DeadlineTable{entries: make(map[string][]Deadline)}
	for _, j := range defaultDeadlines {
		t.Add(j.jurisdiction, j.deadlines)
	}
	return t
}

// Add registers deadlines for a jurisdiction, replacing any existing entry.
func (t *DeadlineTable) Add(jurisdiction string, deadlines []Deadline) {
	if _, exists := t.entries[jurisdiction]; !exists {
		t.order = append(t.order, jurisdiction)
	}
	t.entries[jurisdiction] = deadlines
}

// Lookup returns the deadlines for a jurisdiction, matching
// case-insensitively and on partial names in either direction.
// Returns the canonical jurisdiction name and false if nothing matched.
func (t *DeadlineTable) Lookup(jurisdiction string) (string, []Deadline, bool) {
	needle := strings.ToLower(strings.TrimSpace(jurisdiction))
	if needle == "" {
		return "", nil, false
	}
	for _, key := range t.order {
		lower := strings.ToLower(key)
		if strings.Contains(needle, lower) || strings.Contains(lower, needle) {
			return key, t.entries[key], true
		}
	}
	return "", nil, false
}

// Guide returns a formatted procedural guide for the jurisdiction.
func (t *DeadlineTable) Guide(jurisdiction string) string {
	matched, deadlines, ok := t.Lookup(jurisdiction)
	if !ok {
		return "No specific procedural rules found for this jurisdiction in the local database. Please consult local court rules."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "### Procedural Rules for %s\n\n", matched)
	for _, d := range deadlines {
		fmt.Fprintf(&b, "- **%s**: %s (Authority: %s)\n", d.Rule, d.Deadline, d.Authority)
	}
	return b.String()
}

// Checklist returns deadline checklist items for the jurisdiction.
// An unmatched jurisdiction gets a generic verification item.
func (t *DeadlineTable) Checklist(jurisdiction string) []string {
	_, deadlines, ok := t.Lookup(jurisdiction)
	if !ok {
		return []string{"Verify local court rules and standing orders."}
	}

	items := make([]string, len(deadlines))
	for i, d := range deadlines {
		items[i] = fmt.Sprintf("%s: %s", d.Rule, d.Deadline)
	}
	return items
}

// defaultDeadlines seeds the table. A production deployment replaces this
// with a loaded corpus; the seed covers the most commonly requested
// jurisdictions.
var defaultDeadlines = []struct {
	jurisdiction string
	deadlines    []Deadline
}{
	{
		jurisdiction: "California",
		deadlines: []Deadline{
			{Rule: "Demurrer", Deadline: "Must be filed within 30 days of service of complaint.", Authority: "CCP § 430.10"},
			{Rule: "Motion to Strike", Deadline: "Must be filed within 30 days of service of complaint.", Authority: "CCP § 435"},
			{Rule: "Discovery Responses", Deadline: "30 days after service of discovery requests (plus 5 days if served by mail).", Authority: "CCP § 2030.260"},
			{Rule: "Summary Judgment", Deadline: "Notice must be served at least 75 days before hearing.", Authority: "CCP § 437c(a)(2)"},
		},
	},
	{
		jurisdiction: "Federal (9th Circuit)",
		deadlines: []Deadline{
			{Rule: "Answer to Complaint", Deadline: "21 days after being served with summons and complaint.", Authority: "FRCP 12(a)(1)(A)(i)"},
			{Rule: "Rule 26(f) Conference", Deadline: "At least 21 days before a scheduling conference is held.", Authority: "FRCP 26(f)"},
			{Rule: "Motion for New Trial", Deadline: "No later than 28 days after the entry of judgment.", Authority: "FRCP 59(b)"},
		},
	},
	{
		jurisdiction: "New York",
		deadlines: []Deadline{
			{Rule: "Answer", Deadline: "20 days if served in person; 30 days if served by other means.", Authority: "CPLR 3012"},
			{Rule: "Motion to Dismiss", Deadline: "Before the responsive pleading is required.", Authority: "CPLR 3211"},
		},
	},
}
