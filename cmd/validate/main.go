// Command validate performs integrity checks on an incident CSV before it is
// served or published: schema presence, per-row parseability, geolocation
// coverage, and derived-field sanity. Exits non-zero when any phase fails.
//
// Usage:
//
//	go run ./cmd/validate -file data/arrests.csv
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/couchcryptid/incident-insights/internal/ingest"
	"github.com/couchcryptid/incident-insights/internal/observability"
)

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	file := flag.String("file", "", "incident CSV to validate")
	maxSkipPct := flag.Float64("max-skip-pct", 1.0, "maximum tolerated percentage of skipped rows")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*file, *maxSkipPct); code != 0 {
		os.Exit(code)
	}
}

func run(path string, maxSkipPct float64) int {
	fmt.Println("=== Incident Data Integrity Validation ===")
	fmt.Println()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	loader := ingest.NewLoader(logger, observability.NewMetricsForTesting())

	ds, err := loader.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load %s: %v\n", path, err)
		return 1
	}

	phases := []*phase{
		checkRows(ds, maxSkipPct),
		checkGeolocation(ds),
		checkDerivedFields(ds),
	}

	failed := 0
	for _, p := range phases {
		if p.passed() {
			fmt.Printf("PASS  %s\n", p.name)
			continue
		}
		failed++
		fmt.Printf("FAIL  %s\n", p.name)
		for _, e := range p.errors {
			fmt.Printf("      - %s\n", e)
		}
	}

	fmt.Println()
	fmt.Printf("records: %d  skipped: %d  no-geolocation: %d\n", ds.Len(), len(ds.Skipped), ds.DroppedNoGeo)
	min, max := ds.DateRange()
	if ds.Len() > 0 {
		fmt.Printf("date range: %s to %s\n", min.Format("2006-01-02"), max.Format("2006-01-02"))
		fmt.Printf("categories: %d  regions: %d  years: %v\n", len(ds.Categories()), len(ds.Regions()), ds.Years())
	}

	if failed > 0 {
		return 1
	}
	return 0
}

func checkRows(ds *ingest.Dataset, maxSkipPct float64) *phase {
	p := &phase{name: "row parseability"}

	if ds.Len() == 0 {
		p.errorf("no records retained")
		return p
	}

	total := ds.Len() + len(ds.Skipped)
	skipPct := float64(len(ds.Skipped)) / float64(total) * 100
	if skipPct > maxSkipPct {
		p.errorf("%.2f%% of rows skipped (max %.2f%%)", skipPct, maxSkipPct)
		for i, rowErr := range ds.Skipped {
			if i == 5 {
				p.errorf("... and %d more", len(ds.Skipped)-5)
				break
			}
			p.errorf("%v", rowErr)
		}
	}
	return p
}

func checkGeolocation(ds *ingest.Dataset) *phase {
	p := &phase{name: "geolocation coverage"}

	for _, r := range ds.Records {
		if r.Latitude == 0 && r.Longitude == 0 {
			p.errorf("record %s retained with (0,0) coordinates", r.ID)
		}
	}
	return p
}

func checkDerivedFields(ds *ingest.Dataset) *phase {
	p := &phase{name: "derived time fields"}

	for _, r := range ds.Records {
		if r.Month < 1 || r.Month > 12 {
			p.errorf("record %s: month %d out of range", r.ID, r.Month)
		}
		if r.Hour < 0 || r.Hour > 23 {
			p.errorf("record %s: hour %d out of range", r.ID, r.Hour)
		}
		if r.Year != r.Timestamp.Year() || r.Month != int(r.Timestamp.Month()) || r.Hour != r.Timestamp.Hour() {
			p.errorf("record %s: derived fields disagree with timestamp", r.ID)
		}
	}
	return p
}
