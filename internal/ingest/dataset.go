package ingest

import (
	"sort"
	"time"

	"github.com/couchcryptid/incident-insights/internal/domain"
)

// Dataset is the immutable record table for one load of the source file.
// All pipeline operations are pure reads over it; nothing mutates Records
// after the loader returns.
type Dataset struct {
	ID       string // per-load identity, used for log correlation
	Source   string
	LoadedAt time.Time

	Records []domain.Record

	// Load diagnostics. Skipped holds the per-row parse failures excluded
	// under the skip-invalid-rows policy; DroppedNoGeo counts rows dropped
	// for missing or (0,0) coordinates.
	Skipped      []*domain.RowError
	DroppedNoGeo int
}

// Len returns the number of retained records.
func (d *Dataset) Len() int { return len(d.Records) }

// DateRange returns the minimum and maximum timestamps in the table.
// Both are zero when the table is empty.
func (d *Dataset) DateRange() (min, max time.Time) {
	for _, r := range d.Records {
		if min.IsZero() || r.Timestamp.Before(min) {
			min = r.Timestamp
		}
		if r.Timestamp.After(max) {
			max = r.Timestamp
		}
	}
	return min, max
}

// Categories returns the distinct category labels in ascending lexical order.
func (d *Dataset) Categories() []string {
	return d.distinctStrings(func(r domain.Record) string { return r.Category })
}

// Regions returns the distinct non-empty regions in ascending lexical order.
func (d *Dataset) Regions() []string {
	return d.distinctStrings(func(r domain.Record) string { return r.Region })
}

// Years returns the distinct years present in the table, ascending.
func (d *Dataset) Years() []int {
	return d.distinctInts(func(r domain.Record) int { return r.Year })
}

// Months returns the distinct months (1-12) present in the table, ascending.
func (d *Dataset) Months() []int {
	return d.distinctInts(func(r domain.Record) int { return r.Month })
}

func (d *Dataset) distinctStrings(key func(domain.Record) string) []string {
	seen := make(map[string]bool)
	for _, r := range d.Records {
		if k := key(r); k != "" {
			seen[k] = true
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (d *Dataset) distinctInts(key func(domain.Record) int) []int {
	seen := make(map[int]bool)
	for _, r := range d.Records {
		seen[key(r)] = true
	}
	out := make([]int, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
