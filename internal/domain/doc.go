// Package domain models geocoded incident records from the NYPD arrest
// data extract.
//
// # Data Source
//
// Records originate from the NYC Open Data "NYPD Arrest Data" CSV export.
// Each row describes one arrest: when it happened, where (WGS-84 latitude
// and longitude), the offense description used as the category label, the
// borough it occurred in, and the precinct that made the arrest.
//
// # Source Conventions
//
// Coordinates:
//
//	Latitude and longitude may be blank when geolocation failed upstream.
//	A (0, 0) pair is the export's sentinel for "no geolocation available"
//	and is treated the same as blank. Rows without usable coordinates are
//	dropped at load time since every downstream view is map-oriented.
//
// Borough codes:
//
//	The arrest_boro column carries single-letter codes (B, K, M, Q, S).
//	Rows may leave it blank; blank boroughs are kept in the table but never
//	match a borough filter and never appear in borough comparisons.
//
// Precinct:
//
//	An opaque identifier kept for display in map tooltips. Never parsed.
//
// # Derived Time Fields
//
// Year, month, month name, day of week, and hour are pure functions of the
// arrest timestamp, computed exactly once when the table is loaded. They
// exist so the filter and the charts never re-derive calendar math per
// request. Reloading the table recomputes them; nothing else may write them.
package domain
