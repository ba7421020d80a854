package domain

import "time"

// Record is one incident: an arrest with location, time, category, and borough.
type Record struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Category  string    `json:"category"`
	Region    string    `json:"region,omitempty"` // borough; empty when the source row had none
	Precinct  string    `json:"precinct,omitempty"`

	TimeFields
}

// TimeFields are derived from Record.Timestamp at load time and must never
// be mutated independently of it.
type TimeFields struct {
	Year      int    `json:"year"`
	Month     int    `json:"month"` // 1-12
	MonthName string `json:"month_name"`
	DayOfWeek string `json:"day_of_week"`
	Hour      int    `json:"hour"` // 0-23
}

// DeriveTimeFields computes the derived calendar fields for a timestamp.
func DeriveTimeFields(t time.Time) TimeFields {
	return TimeFields{
		Year:      t.Year(),
		Month:     int(t.Month()),
		MonthName: t.Month().String(),
		DayOfWeek: t.Weekday().String(),
		Hour:      t.Hour(),
	}
}

// HasGeolocation reports whether a coordinate pair is usable for mapping.
// The source export uses (0, 0) as the sentinel for missing geolocation.
func HasGeolocation(lat, lon float64) bool {
	return lat != 0 || lon != 0
}
