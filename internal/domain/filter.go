package domain

import "fmt"

// FilterSpec is the conjunctive set of active filter predicates. A record
// passes iff its category is in Categories AND its month equals Month AND
// its year equals Year AND its region is in Regions. There is no OR mode.
type FilterSpec struct {
	Categories map[string]bool
	Month      int // 1-12
	Year       int
	Regions    map[string]bool
}

// NewFilterSpec builds a FilterSpec from the raw selections of one user
// interaction.
func NewFilterSpec(categories []string, month, year int, regions []string) FilterSpec {
	return FilterSpec{
		Categories: toSet(categories),
		Month:      month,
		Year:       year,
		Regions:    toSet(regions),
	}
}

// Matches applies all four predicates. Records without a region never match,
// regardless of the region selection.
func (s FilterSpec) Matches(r Record) bool {
	if !s.Categories[r.Category] {
		return false
	}
	if r.Month != s.Month || r.Year != s.Year {
		return false
	}
	return r.Region != "" && s.Regions[r.Region]
}

// MatchesScope applies the category, region, and year predicates but ignores
// the month. The monthly trend view uses this to answer "how does the current
// selection trend across the whole year".
func (s FilterSpec) MatchesScope(r Record) bool {
	if !s.Categories[r.Category] {
		return false
	}
	if r.Year != s.Year {
		return false
	}
	return r.Region != "" && s.Regions[r.Region]
}

// Validate rejects specs that could never have come from the filter controls.
func (s FilterSpec) Validate() error {
	if s.Month < 1 || s.Month > 12 {
		return fmt.Errorf("month %d out of range 1-12", s.Month)
	}
	if s.Year <= 0 {
		return fmt.Errorf("year %d must be positive", s.Year)
	}
	return nil
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if v != "" {
			set[v] = true
		}
	}
	return set
}
