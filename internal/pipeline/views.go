// Package pipeline turns the loaded record table plus one user's filter
// selections into the derived views the dashboard renders: map points,
// category distribution, hourly histogram, regional comparison, and the
// monthly trend. Everything here is a pure read over the table.
package pipeline

import (
	"sort"
	"time"

	"github.com/couchcryptid/incident-insights/internal/domain"
)

// HourCount is one bar of the hourly histogram. Hours with no records are
// not materialized; consumers treat absent hours as zero.
type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// MonthCount is one point of the monthly trend line. Selected marks the
// month currently picked in the filter, for chart highlighting.
type MonthCount struct {
	Month     int    `json:"month"`
	MonthName string `json:"month_name"`
	Count     int    `json:"count"`
	Selected  bool   `json:"selected"`
}

// TopCategory is the most frequent category in a subset.
type TopCategory struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Filter retains the records satisfying all four FilterSpec predicates,
// preserving relative order. The input slice is never mutated; the result is
// a fresh slice. Single linear pass.
func Filter(records []domain.Record, spec domain.FilterSpec) []domain.Record {
	var subset []domain.Record
	for _, r := range records {
		if spec.Matches(r) {
			subset = append(subset, r)
		}
	}
	return subset
}

// CategoryCounts counts records per distinct category in the subset.
func CategoryCounts(subset []domain.Record) map[string]int {
	counts := make(map[string]int)
	for _, r := range subset {
		counts[r.Category]++
	}
	return counts
}

// HourlyCounts counts records per hour of day, ascending by hour. Only hours
// with at least one record appear.
func HourlyCounts(subset []domain.Record) []HourCount {
	counts := make(map[int]int)
	for _, r := range subset {
		counts[r.Hour]++
	}

	out := make([]HourCount, 0, len(counts))
	for hour, count := range counts {
		out = append(out, HourCount{Hour: hour, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out
}

// RegionCounts counts records per distinct region in the subset. The
// comparison chart shows it only when more than one region is selected.
func RegionCounts(subset []domain.Record) map[string]int {
	counts := make(map[string]int)
	for _, r := range subset {
		if r.Region != "" {
			counts[r.Region]++
		}
	}
	return counts
}

// MonthlyTrend counts records per month across the whole filter year, honoring
// the category and region selections but ignoring the selected month: it
// answers how the current scope trends over the year. Months absent from the
// data do not appear; present months are ordered 1..12.
func MonthlyTrend(records []domain.Record, spec domain.FilterSpec) []MonthCount {
	counts := make(map[int]int)
	for _, r := range records {
		if spec.MatchesScope(r) {
			counts[r.Month]++
		}
	}

	out := make([]MonthCount, 0, len(counts))
	for month, count := range counts {
		out = append(out, MonthCount{
			Month:     month,
			MonthName: monthName(month),
			Count:     count,
			Selected:  month == spec.Month,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// Top returns the most frequent category. Ties are broken by ascending
// lexical order so "top category" reporting is reproducible. ok is false for
// an empty subset: there is no defined top category, not an arbitrary one.
func Top(counts map[string]int) (TopCategory, bool) {
	var top TopCategory
	found := false
	for category, count := range counts {
		switch {
		case !found, count > top.Count:
			top = TopCategory{Category: category, Count: count}
			found = true
		case count == top.Count && category < top.Category:
			top.Category = category
		}
	}
	return top, found
}

func monthName(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return time.Month(m).String()
}
