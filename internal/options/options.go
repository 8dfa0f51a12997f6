// Package options holds the static option tables offered by the study plan
// form and maps them to renderable option descriptors.
package options

import "strings"

// Entry is one row of an option table: the text shown to the user and the
// value submitted with the form.
type Entry struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Table is an ordered label->value mapping. Entry order is display order.
type Table struct {
	Name    string  `json:"name"`
	Entries []Entry `json:"entries"`
}

// Descriptor is a single selectable option, independent of where it is rendered.
type Descriptor struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Domain string

const (
	DomainProjectType         Domain = "project_type"
	DomainReferencePreference Domain = "reference_preference"
	DomainTimeframe           Domain = "timeframe"
	DomainTimeConstraint      Domain = "time_constraint"
)

// Domains lists every option domain in page order.
var Domains = []Domain{
	DomainProjectType,
	DomainReferencePreference,
	DomainTimeframe,
	DomainTimeConstraint,
}

// TargetID returns the element id of the dropdown a domain populates.
func (d Domain) TargetID() string {
	if d == DomainProjectType {
		return "project_type_dropdown"
	}
	return string(d)
}

var projectTypeLabels = []string{
	"Coding",
	"Art",
	"Art & craft",
	"Music",
	"Dance",
	"Cooking",
	"Photography",
	"Writing",
	"Design",
	"Marketing",
	"Finance",
	"Science",
	"Mathematics",
	"History",
	"Philosophy",
}

// ProjectTypes returns the project type table. Values are the lower-cased labels.
func ProjectTypes() Table {
	t := Table{Name: string(DomainProjectType), Entries: make([]Entry, 0, len(projectTypeLabels))}
	for _, l := range projectTypeLabels {
		t.Entries = append(t.Entries, Entry{Label: l, Value: strings.ToLower(l)})
	}
	return t
}

// ReferencePreferences returns the reference preference table.
func ReferencePreferences() Table {
	return Table{
		Name: string(DomainReferencePreference),
		Entries: []Entry{
			{Label: "Youtube (free)", Value: "youtube"},
			{Label: "Video", Value: "video"},
			{Label: "Book", Value: "book"},
			{Label: "Text", Value: "text"},
			{Label: "Combo", Value: "youtube, video, text, book"},
		},
	}
}

// TableFor returns the table backing a domain.
func TableFor(d Domain) (Table, bool) {
	switch d {
	case DomainProjectType:
		return ProjectTypes(), true
	case DomainReferencePreference:
		return ReferencePreferences(), true
	case DomainTimeframe, DomainTimeConstraint:
		return DurationTable(string(d)), true
	}
	return Table{}, false
}

// Descriptors maps a table to one descriptor per entry, preserving order.
func Descriptors(t Table) []Descriptor {
	out := make([]Descriptor, 0, len(t.Entries))
	for _, e := range t.Entries {
		out = append(out, Descriptor{Value: e.Value, Label: e.Label})
	}
	return out
}

// Populate builds the descriptors for every domain whose dropdown is present
// on the page being mounted. Domains without a target are skipped.
func Populate(present func(id string) bool) map[Domain][]Descriptor {
	out := make(map[Domain][]Descriptor, len(Domains))
	for _, d := range Domains {
		if present != nil && !present(d.TargetID()) {
			continue
		}
		t, _ := TableFor(d)
		out[d] = Descriptors(t)
	}
	return out
}

// Lookup finds the entry of a domain whose submitted value equals value.
func Lookup(d Domain, value string) (Entry, bool) {
	t, ok := TableFor(d)
	if !ok {
		return Entry{}, false
	}
	for _, e := range t.Entries {
		if e.Value == value {
			return e, true
		}
	}
	return Entry{}, false
}
