package options

import (
	"fmt"
	"sort"
)

const (
	hoursPerDay   = 24
	hoursPerMonth = 30 * hoursPerDay
)

// Duration is a generated timeframe choice and its length in hours.
type Duration struct {
	Label string `json:"label"`
	Hours int    `json:"hours"`
}

type durationUnit struct {
	noun  string
	max   int
	hours int
}

var durationUnits = []durationUnit{
	{noun: "hour", max: 20, hours: 1},
	{noun: "day", max: 30, hours: hoursPerDay},
	{noun: "month", max: 9, hours: hoursPerMonth},
}

// Durations generates 1-20 hours, 1-30 days and 1-9 months ordered by length.
func Durations() []Duration {
	var out []Duration
	for _, u := range durationUnits {
		for i := 1; i <= u.max; i++ {
			out = append(out, Duration{Label: durationLabel(i, u.noun), Hours: i * u.hours})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Hours < out[j].Hours })
	return out
}

func durationLabel(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// DurationTable exposes the durations as a table. The submitted value is the
// label itself ("3 days"), which is what the plan creator expects.
func DurationTable(name string) Table {
	ds := Durations()
	t := Table{Name: name, Entries: make([]Entry, 0, len(ds))}
	for _, d := range ds {
		t.Entries = append(t.Entries, Entry{Label: d.Label, Value: d.Label})
	}
	return t
}
