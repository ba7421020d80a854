package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// dataset loader and the view pipeline.
type Metrics struct {
	DatasetLoads  prometheus.Counter
	RowsLoaded    prometheus.Counter
	RowsSkipped   prometheus.Counter
	RowsNoGeo     prometheus.Counter
	LoadDuration  prometheus.Histogram
	DatasetLoaded prometheus.Gauge

	// View pipeline metrics.
	ViewRequests prometheus.Counter
	ViewDuration prometheus.Histogram
	SubsetSize   prometheus.Histogram
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		DatasetLoads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "incident_insights",
			Name:      "dataset_loads_total",
			Help:      "Total dataset loads from the source file, including reloads.",
		}),
		RowsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "incident_insights",
			Name:      "rows_loaded_total",
			Help:      "Total source rows retained in the record table.",
		}),
		RowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "incident_insights",
			Name:      "rows_skipped_total",
			Help:      "Total source rows dropped because a required field failed to parse.",
		}),
		RowsNoGeo: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "incident_insights",
			Name:      "rows_no_geolocation_total",
			Help:      "Total source rows dropped for missing or (0,0) coordinates.",
		}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "incident_insights",
			Name:      "dataset_load_duration_seconds",
			Help:      "Duration of a complete parse-validate-derive load.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		DatasetLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "incident_insights",
			Name:      "dataset_loaded",
			Help:      "1 when a dataset is resident in memory, 0 before the first load.",
		}),
		ViewRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "incident_insights",
			Name:      "view_requests_total",
			Help:      "Total filter-and-aggregate view computations.",
		}),
		ViewDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "incident_insights",
			Name:      "view_duration_seconds",
			Help:      "Duration of one full derived-view computation.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		SubsetSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "incident_insights",
			Name:      "subset_size",
			Help:      "Number of records matching the filter per view computation.",
			Buckets:   []float64{0, 10, 50, 100, 500, 1000, 5000, 10000, 50000},
		}),
	}

	prometheus.MustRegister(
		m.DatasetLoads,
		m.RowsLoaded,
		m.RowsSkipped,
		m.RowsNoGeo,
		m.LoadDuration,
		m.DatasetLoaded,
		m.ViewRequests,
		m.ViewDuration,
		m.SubsetSize,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		DatasetLoads:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "incident_insights", Name: "dataset_loads_total"}),
		RowsLoaded:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "incident_insights", Name: "rows_loaded_total"}),
		RowsSkipped:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "incident_insights", Name: "rows_skipped_total"}),
		RowsNoGeo:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "incident_insights", Name: "rows_no_geolocation_total"}),
		LoadDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "incident_insights", Name: "dataset_load_duration_seconds"}),
		DatasetLoaded: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "incident_insights", Name: "dataset_loaded"}),
		ViewRequests:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "incident_insights", Name: "view_requests_total"}),
		ViewDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "incident_insights", Name: "view_duration_seconds"}),
		SubsetSize:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "incident_insights", Name: "subset_size"}),
	}
}
