package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeadlineTable_LookupExact(t *testing.T) {
	table := NewDeadlineTable()

	matched, deadlines, ok := table.Lookup("California")
	require.True(t, ok)
	assert.Equal(t, "California", matched)
	assert.Len(t, deadlines, 4)
}

func TestDeadlineTable_LookupFuzzy(t *testing.T) {
	table := NewDeadlineTable()

	tests := []struct {
		query string
		want  string
	}{
		{"superior court of california", "California"},
		{"CALIFORNIA", "California"},
		{"New York State", "New York"},
		{"Federal", "Federal (9th Circuit)"},
	}

	for _, tt := range tests {
		matched, _, ok := table.Lookup(tt.query)
		require.True(t, ok, "query %q", tt.query)
		assert.Equal(t, tt.want, matched, "query %q", tt.query)
	}
}

func TestDeadlineTable_LookupMiss(t *testing.T) {
	table := NewDeadlineTable()

	_, _, ok := table.Lookup("Texas")
	assert.False(t, ok)

	_, _, ok = table.Lookup("")
	assert.False(t, ok)
}

func TestDeadlineTable_Guide(t *testing.T) {
	table := NewDeadlineTable()

	guide := table.Guide("New York")
	assert.Contains(t, guide, "### Procedural Rules for New York")
	assert.Contains(t, guide, "**Answer**: 20 days if served in person")
	assert.Contains(t, guide, "CPLR 3012")

	missing := table.Guide("Texas")
	assert.Contains(t, missing, "No specific procedural rules found")
}

func TestDeadlineTable_Checklist(t *testing.T) {
	table := NewDeadlineTable()

	items := table.Checklist("california")
	require.Len(t, items, 4)
	assert.Equal(t, "Demurrer: Must be filed within 30 days of service of complaint.", items[0])

	fallback := table.Checklist("Texas")
	assert.Equal(t, []string{"Verify local court rules and standing orders."}, fallback)
}

func TestDeadlineTable_AddReplaces(t *testing.T) {
	table := NewDeadlineTable()
	table.Add("California", []Deadline{{Rule: "Custom", Deadline: "10 days.", Authority: "Local"}})

	_, deadlines, ok := table.Lookup("California")
	require.True(t, ok)
	require.Len(t, deadlines, 1)
	assert.Equal(t, "Custom", deadlines[0].Rule)
}
