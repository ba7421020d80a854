// Package palette assigns display colors to categories and resolves the map
// style selection. Assignments are deterministic so a category keeps its
// color for as long as the filter is unchanged.
package palette

import "github.com/couchcryptid/incident-insights/internal/domain"

// Color is a named RGB value from the fixed palette.
type Color struct {
	Name string `json:"name"`
	R    uint8  `json:"r"`
	G    uint8  `json:"g"`
	B    uint8  `json:"b"`
}

// colors is the fixed ordered palette. Categories cycle through it by
// first-seen position.
var colors = []Color{
	{Name: "red", R: 255, G: 0, B: 0},
	{Name: "blue", R: 0, G: 0, B: 255},
	{Name: "green", R: 0, G: 255, B: 0},
	{Name: "purple", R: 128, G: 0, B: 128},
	{Name: "orange", R: 255, G: 165, B: 0},
	{Name: "brown", R: 165, G: 42, B: 42},
	{Name: "pink", R: 255, G: 192, B: 203},
	{Name: "gray", R: 128, G: 128, B: 128},
	{Name: "olive", R: 128, G: 128, B: 0},
	{Name: "cyan", R: 0, G: 255, B: 255},
	{Name: "yellow", R: 255, G: 255, B: 0},
	{Name: "magenta", R: 255, G: 0, B: 255},
}

// Assign maps each distinct category in the subset to a palette color by
// first-seen order. Subsets preserve table order, so repeated calls over an
// unchanged subset produce identical assignments.
func Assign(subset []domain.Record) map[string]Color {
	assigned := make(map[string]Color)
	next := 0
	for _, r := range subset {
		if _, ok := assigned[r.Category]; ok {
			continue
		}
		assigned[r.Category] = colors[next%len(colors)]
		next++
	}
	return assigned
}

// Style is the enumerated map style selection.
type Style int

const (
	StyleStandard Style = iota
	StyleSatellite
	StyleStreet
)

func (s Style) String() string {
	switch s {
	case StyleSatellite:
		return "satellite"
	case StyleStreet:
		return "street"
	default:
		return "standard"
	}
}

// ParseStyle maps a user-supplied style name to a Style. Unknown names
// report ok=false; callers choose how to respond.
func ParseStyle(name string) (Style, bool) {
	switch name {
	case "standard", "":
		return StyleStandard, true
	case "satellite":
		return StyleSatellite, true
	case "street":
		return StyleStreet, true
	default:
		return StyleStandard, false
	}
}

// Resolution is the outcome of a style selection: the style to render and
// whether the requested one was unavailable and fell back to standard. The
// fallback is an explicit result, never a swallowed rendering error.
type Resolution struct {
	Style    Style
	Fallback bool
}

// Resolve picks the requested style when the renderer supports it, otherwise
// falls back to StyleStandard, which is always supported.
func Resolve(requested Style, supported func(Style) bool) Resolution {
	if requested == StyleStandard || supported == nil || supported(requested) {
		return Resolution{Style: requested}
	}
	return Resolution{Style: StyleStandard, Fallback: true}
}
