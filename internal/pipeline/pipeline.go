package pipeline

import (
	"log/slog"
	"time"

	"github.com/couchcryptid/incident-insights/internal/domain"
	"github.com/couchcryptid/incident-insights/internal/ingest"
	"github.com/couchcryptid/incident-insights/internal/observability"
)

// Summary is the counter block shown above the charts.
type Summary struct {
	TotalRecords       int       `json:"total_records"`
	FilteredRecords    int       `json:"filtered_records"`
	FirstRecord        time.Time `json:"first_record"`
	LastRecord         time.Time `json:"last_record"`
	DistinctCategories int       `json:"distinct_categories"`
	DistinctRegions    int       `json:"distinct_regions"`
	SelectedMonth      int       `json:"selected_month"`
	SelectedMonthName  string    `json:"selected_month_name"`
}

// Views bundles every derived view for one filter interaction. An empty
// subset is a valid terminal state: count views are empty and Top is nil.
type Views struct {
	Subset         []domain.Record
	CategoryCounts map[string]int
	HourlyCounts   []HourCount
	RegionCounts   map[string]int
	Trend          []MonthCount
	Top            *TopCategory
	Summary        Summary
}

// Pipeline computes derived views over a loaded dataset, instrumented with
// request metrics. It holds no state between calls.
type Pipeline struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Pipeline with the given observability.
func New(logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{logger: logger, metrics: metrics}
}

// Views runs one full filter-and-aggregate pass for the given spec.
func (p *Pipeline) Views(ds *ingest.Dataset, spec domain.FilterSpec) Views {
	start := time.Now()

	subset := Filter(ds.Records, spec)
	categoryCounts := CategoryCounts(subset)

	v := Views{
		Subset:         subset,
		CategoryCounts: categoryCounts,
		HourlyCounts:   HourlyCounts(subset),
		RegionCounts:   RegionCounts(subset),
		Trend:          MonthlyTrend(ds.Records, spec),
		Summary:        p.summarize(ds, spec, len(subset)),
	}
	if top, ok := Top(categoryCounts); ok {
		v.Top = &top
	}

	p.metrics.ViewRequests.Inc()
	p.metrics.ViewDuration.Observe(time.Since(start).Seconds())
	p.metrics.SubsetSize.Observe(float64(len(subset)))

	p.logger.Debug("views computed",
		"dataset_id", ds.ID,
		"year", spec.Year,
		"month", spec.Month,
		"subset", len(subset),
	)
	return v
}

func (p *Pipeline) summarize(ds *ingest.Dataset, spec domain.FilterSpec, filtered int) Summary {
	first, last := ds.DateRange()
	return Summary{
		TotalRecords:       ds.Len(),
		FilteredRecords:    filtered,
		FirstRecord:        first,
		LastRecord:         last,
		DistinctCategories: len(ds.Categories()),
		DistinctRegions:    len(ds.Regions()),
		SelectedMonth:      spec.Month,
		SelectedMonthName:  monthName(spec.Month),
	}
}
