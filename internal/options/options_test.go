package options

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptorsPreserveOrder(t *testing.T) {
	tests := []struct {
		name  string
		table Table
	}{
		{name: "project types", table: ProjectTypes()},
		{name: "reference preferences", table: ReferencePreferences()},
		{name: "timeframe", table: DurationTable("timeframe")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Descriptors(tt.table)
			require.Len(t, got, len(tt.table.Entries))
			seen := map[string]int{}
			for i, e := range tt.table.Entries {
				assert.Equal(t, e.Value, got[i].Value)
				assert.Equal(t, e.Label, got[i].Label)
				seen[e.Label]++
			}
			for label, n := range seen {
				assert.Equal(t, 1, n, "label %q repeated", label)
			}
		})
	}
}

func TestProjectTypeValuesAreLowerCased(t *testing.T) {
	pt := ProjectTypes()
	require.Len(t, pt.Entries, 15)
	assert.Equal(t, Entry{Label: "Coding", Value: "coding"}, pt.Entries[0])
	assert.Equal(t, Entry{Label: "Art & craft", Value: "art & craft"}, pt.Entries[2])
	assert.Equal(t, Entry{Label: "Philosophy", Value: "philosophy"}, pt.Entries[14])
}

func TestReferencePreferenceCombo(t *testing.T) {
	rp := ReferencePreferences()
	require.Len(t, rp.Entries, 5)
	assert.Equal(t, "Youtube (free)", rp.Entries[0].Label)
	assert.Equal(t, "youtube, video, text, book", rp.Entries[4].Value)
}

func TestDurationsAscendingAndComplete(t *testing.T) {
	ds := Durations()
	require.Len(t, ds, 20+30+9)
	for i := 1; i < len(ds); i++ {
		assert.Less(t, ds[i-1].Hours, ds[i].Hours, "%s before %s", ds[i-1].Label, ds[i].Label)
	}
	assert.Equal(t, Duration{Label: "1 hour", Hours: 1}, ds[0])
	assert.Equal(t, Duration{Label: "9 months", Hours: 9 * 30 * 24}, ds[len(ds)-1])
}

func TestDurationPluralization(t *testing.T) {
	byLabel := map[string]int{}
	for _, d := range Durations() {
		byLabel[d.Label] = d.Hours
	}
	for _, label := range []string{"1 hour", "1 day", "1 month", "2 hours", "20 hours", "30 days", "2 months"} {
		_, ok := byLabel[label]
		assert.True(t, ok, "missing %q", label)
	}
	for label := range byLabel {
		if strings.HasPrefix(label, "1 ") {
			assert.False(t, strings.HasSuffix(label, "s"), "singular expected: %q", label)
		} else {
			assert.True(t, strings.HasSuffix(label, "s"), "plural expected: %q", label)
		}
	}
}

func TestDurationTableUsesLabelAsValue(t *testing.T) {
	tbl := DurationTable("time_constraint")
	assert.Equal(t, "time_constraint", tbl.Name)
	for _, e := range tbl.Entries {
		assert.Equal(t, e.Label, e.Value)
	}
}

func TestPopulateSkipsMissingTargets(t *testing.T) {
	present := map[string]bool{"project_type_dropdown": true, "timeframe": true}
	got := Populate(func(id string) bool { return present[id] })

	require.Len(t, got, 2)
	assert.Len(t, got[DomainProjectType], 15)
	assert.Len(t, got[DomainTimeframe], 59)
	_, ok := got[DomainReferencePreference]
	assert.False(t, ok)
}

func TestPopulateNoTargets(t *testing.T) {
	got := Populate(func(string) bool { return false })
	assert.Empty(t, got)
}

func TestLookup(t *testing.T) {
	e, ok := Lookup(DomainReferencePreference, "book")
	require.True(t, ok)
	assert.Equal(t, "Book", e.Label)

	_, ok = Lookup(DomainTimeframe, "21 hours")
	assert.False(t, ok)

	_, ok = Lookup(Domain("nope"), "x")
	assert.False(t, ok)
}
