package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/incident-insights/internal/domain"
	"github.com/couchcryptid/incident-insights/internal/palette"
	"github.com/couchcryptid/incident-insights/internal/pipeline"
)

type point struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Category  string    `json:"category"`
	Timestamp time.Time `json:"timestamp"`
	Region    string    `json:"region,omitempty"`
	Precinct  string    `json:"precinct,omitempty"`
	Color     string    `json:"color"`
}

type legendEntry struct {
	Category string        `json:"category"`
	Color    palette.Color `json:"color"`
}

type mapStyle struct {
	Style    string `json:"style"`
	Fallback bool   `json:"fallback"`
}

type viewsResponse struct {
	Points         []point                `json:"points"`
	CategoryCounts map[string]int         `json:"category_counts"`
	HourlyCounts   []pipeline.HourCount   `json:"hourly_counts"`
	RegionCounts   map[string]int         `json:"region_counts,omitempty"`
	MonthlyTrend   []pipeline.MonthCount  `json:"monthly_trend"`
	TopCategory    *pipeline.TopCategory  `json:"top_category,omitempty"`
	Legend         []legendEntry          `json:"legend"`
	MapStyle       mapStyle               `json:"map_style"`
	Summary        pipeline.Summary       `json:"summary"`
}

type filtersResponse struct {
	Categories []string `json:"categories"`
	Regions    []string `json:"regions"`
	Years      []int    `json:"years"`
	Months     []int    `json:"months"`
}

// handleViews runs one filter-and-aggregate pass. month and year are
// required; omitted categories or regions default to everything present in
// the dataset, matching the dashboard's "all selected" initial state.
func (s *Server) handleViews(w http.ResponseWriter, r *http.Request) {
	ds, err := s.provider.Dataset()
	if err != nil {
		s.datasetError(w, err)
		return
	}

	q := r.URL.Query()

	month, err := requiredInt(q.Get("month"), "month")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	year, err := requiredInt(q.Get("year"), "year")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	categories := q["categories"]
	if len(categories) == 0 {
		categories = ds.Categories()
	}
	regions := q["regions"]
	if len(regions) == 0 {
		regions = ds.Regions()
	}

	spec := domain.NewFilterSpec(categories, month, year, regions)
	if err := spec.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	requested, known := palette.ParseStyle(q.Get("style"))
	style := palette.Resolve(requested, nil)
	if !known {
		style = palette.Resolution{Style: palette.StyleStandard, Fallback: true}
	}

	v := s.pipe.Views(ds, spec)
	colors := palette.Assign(v.Subset)

	resp := viewsResponse{
		Points:         buildPoints(v, colors),
		CategoryCounts: v.CategoryCounts,
		HourlyCounts:   v.HourlyCounts,
		MonthlyTrend:   v.Trend,
		TopCategory:    v.Top,
		Legend:         buildLegend(v, colors),
		MapStyle:       mapStyle{Style: style.Style.String(), Fallback: style.Fallback},
		Summary:        v.Summary,
	}
	// The regional comparison is only meaningful with more than one region
	// in play.
	if len(spec.Regions) > 1 {
		resp.RegionCounts = v.RegionCounts
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	ds, err := s.provider.Dataset()
	if err != nil {
		s.datasetError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, filtersResponse{
		Categories: ds.Categories(),
		Regions:    ds.Regions(),
		Years:      ds.Years(),
		Months:     ds.Months(),
	})
}

func (s *Server) datasetError(w http.ResponseWriter, err error) {
	s.logger.Error("dataset unavailable", "error", err)
	if errors.Is(err, domain.ErrSourceNotFound) {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func requiredInt(raw, name string) (int, error) {
	if raw == "" {
		return 0, fmt.Errorf("missing required parameter %q", name)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parameter %q must be an integer", name)
	}
	return n, nil
}

func buildPoints(v pipeline.Views, colors map[string]palette.Color) []point {
	points := make([]point, 0, len(v.Subset))
	for _, r := range v.Subset {
		points = append(points, point{
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			Category:  r.Category,
			Timestamp: r.Timestamp,
			Region:    r.Region,
			Precinct:  r.Precinct,
			Color:     colors[r.Category].Name,
		})
	}
	return points
}

// buildLegend lists the subset's categories in first-seen order, mirroring
// the color assignment.
func buildLegend(v pipeline.Views, colors map[string]palette.Color) []legendEntry {
	legend := make([]legendEntry, 0, len(colors))
	seen := make(map[string]bool, len(colors))
	for _, r := range v.Subset {
		if seen[r.Category] {
			continue
		}
		seen[r.Category] = true
		legend = append(legend, legendEntry{Category: r.Category, Color: colors[r.Category]})
	}
	return legend
}
