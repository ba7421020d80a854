package httpapi_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/incident-insights/internal/adapter/httpapi"
	"github.com/couchcryptid/incident-insights/internal/domain"
	"github.com/couchcryptid/incident-insights/internal/ingest"
	"github.com/couchcryptid/incident-insights/internal/observability"
	"github.com/couchcryptid/incident-insights/internal/pipeline"
)

type mockProvider struct {
	ds  *ingest.Dataset
	err error
}

func (m *mockProvider) Dataset() (*ingest.Dataset, error) { return m.ds, m.err }

func (m *mockProvider) CheckReadiness(_ context.Context) error { return m.err }

func testRecord(category, region string, ts time.Time) domain.Record {
	return domain.Record{
		Timestamp:  ts,
		Latitude:   40.7,
		Longitude:  -74.0,
		Category:   category,
		Region:     region,
		Precinct:   "14",
		TimeFields: domain.DeriveTimeFields(ts),
	}
}

func testDataset() *ingest.Dataset {
	return &ingest.Dataset{
		ID: "test-ds",
		Records: []domain.Record{
			testRecord("ROBBERY", "M", time.Date(2020, time.January, 5, 9, 0, 0, 0, time.UTC)),
			testRecord("ROBBERY", "K", time.Date(2020, time.January, 6, 14, 0, 0, 0, time.UTC)),
			testRecord("ASSAULT", "M", time.Date(2020, time.February, 7, 22, 0, 0, 0, time.UTC)),
		},
	}
}

func newTestServer(provider *mockProvider) *httpapi.Server {
	pipe := pipeline.New(slog.Default(), observability.NewMetricsForTesting())
	return httpapi.NewServer(":0", provider, provider, pipe, slog.Default())
}

func get(t *testing.T, srv *httpapi.Server, url string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := get(t, newTestServer(&mockProvider{ds: testDataset()}), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	provider := &mockProvider{err: fmt.Errorf("dataset not available")}
	rec := get(t, newTestServer(provider), "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := get(t, newTestServer(&mockProvider{ds: testDataset()}), "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(t, newTestServer(&mockProvider{ds: testDataset()}), "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestViews_HappyPath(t *testing.T) {
	srv := newTestServer(&mockProvider{ds: testDataset()})
	rec := get(t, srv, "/api/views?month=1&year=2020&categories=ROBBERY&regions=M&regions=K")

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Points []struct {
			Category string `json:"category"`
			Color    string `json:"color"`
			Precinct string `json:"precinct"`
		} `json:"points"`
		CategoryCounts map[string]int `json:"category_counts"`
		HourlyCounts   []struct {
			Hour  int `json:"hour"`
			Count int `json:"count"`
		} `json:"hourly_counts"`
		RegionCounts map[string]int `json:"region_counts"`
		MonthlyTrend []struct {
			Month    int  `json:"month"`
			Count    int  `json:"count"`
			Selected bool `json:"selected"`
		} `json:"monthly_trend"`
		TopCategory *struct {
			Category string `json:"category"`
			Count    int    `json:"count"`
		} `json:"top_category"`
		MapStyle struct {
			Style    string `json:"style"`
			Fallback bool   `json:"fallback"`
		} `json:"map_style"`
		Summary struct {
			TotalRecords    int `json:"total_records"`
			FilteredRecords int `json:"filtered_records"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	require.Len(t, body.Points, 2)
	assert.Equal(t, "ROBBERY", body.Points[0].Category)
	assert.Equal(t, "red", body.Points[0].Color)
	assert.Equal(t, "14", body.Points[0].Precinct)

	assert.Equal(t, map[string]int{"ROBBERY": 2}, body.CategoryCounts)
	assert.Equal(t, map[string]int{"M": 1, "K": 1}, body.RegionCounts)

	require.Len(t, body.HourlyCounts, 2)
	assert.Equal(t, 9, body.HourlyCounts[0].Hour)
	assert.Equal(t, 14, body.HourlyCounts[1].Hour)

	require.Len(t, body.MonthlyTrend, 1)
	assert.Equal(t, 1, body.MonthlyTrend[0].Month)
	assert.Equal(t, 2, body.MonthlyTrend[0].Count)
	assert.True(t, body.MonthlyTrend[0].Selected)

	require.NotNil(t, body.TopCategory)
	assert.Equal(t, "ROBBERY", body.TopCategory.Category)

	assert.Equal(t, "standard", body.MapStyle.Style)
	assert.False(t, body.MapStyle.Fallback)

	assert.Equal(t, 3, body.Summary.TotalRecords)
	assert.Equal(t, 2, body.Summary.FilteredRecords)
}

func TestViews_DefaultsToAllCategoriesAndRegions(t *testing.T) {
	srv := newTestServer(&mockProvider{ds: testDataset()})
	rec := get(t, srv, "/api/views?month=1&year=2020")

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Summary struct {
			FilteredRecords int `json:"filtered_records"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Summary.FilteredRecords)
}

func TestViews_OmitsRegionCountsForSingleRegion(t *testing.T) {
	srv := newTestServer(&mockProvider{ds: testDataset()})
	rec := get(t, srv, "/api/views?month=1&year=2020&regions=M")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "region_counts")
}

func TestViews_UnknownStyleFallsBack(t *testing.T) {
	srv := newTestServer(&mockProvider{ds: testDataset()})
	rec := get(t, srv, "/api/views?month=1&year=2020&style=hologram")

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		MapStyle struct {
			Style    string `json:"style"`
			Fallback bool   `json:"fallback"`
		} `json:"map_style"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "standard", body.MapStyle.Style)
	assert.True(t, body.MapStyle.Fallback)
}

func TestViews_BadRequest(t *testing.T) {
	srv := newTestServer(&mockProvider{ds: testDataset()})

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"missing month", "/api/views?year=2020", "month"},
		{"missing year", "/api/views?month=1", "year"},
		{"non-integer month", "/api/views?month=abc&year=2020", "month"},
		{"month out of range", "/api/views?month=13&year=2020", "month"},
		{"year out of range", "/api/views?month=1&year=0", "year"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv, tt.url)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestViews_SourceMissingReturns503(t *testing.T) {
	provider := &mockProvider{err: fmt.Errorf("%w: data/arrests.csv", domain.ErrSourceNotFound)}
	rec := get(t, newTestServer(provider), "/api/views?month=1&year=2020")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestFilters(t *testing.T) {
	srv := newTestServer(&mockProvider{ds: testDataset()})
	rec := get(t, srv, "/api/filters")

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Categories []string `json:"categories"`
		Regions    []string `json:"regions"`
		Years      []int    `json:"years"`
		Months     []int    `json:"months"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, []string{"ASSAULT", "ROBBERY"}, body.Categories)
	assert.Equal(t, []string{"K", "M"}, body.Regions)
	assert.Equal(t, []int{2020}, body.Years)
	assert.Equal(t, []int{1, 2}, body.Months)
}
