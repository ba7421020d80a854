// Command genmock generates a deterministic mock incident CSV for local
// development and test fixtures. The same seed always produces the same
// file, so fixtures can be regenerated without churning diffs.
//
// Usage:
//
//	go run ./cmd/genmock -out data/arrests.csv -rows 5000 -year 2020
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

var categories = []string{
	"ROBBERY",
	"ASSAULT 3 & RELATED OFFENSES",
	"OFFENSES AGAINST PUBLIC SAFETY",
	"KIDNAPPING & RELATED OFFENSES",
	"THEFT-FRAUD",
	"PETIT LARCENY",
	"DANGEROUS DRUGS",
}

// boroughs uses the single-letter codes of the source export. The empty
// entry produces the occasional row without a borough, as real extracts do.
var boroughs = []string{"B", "K", "M", "Q", "S", ""}

// Rough NYC bounding box.
const (
	latMin = 40.50
	latMax = 40.92
	lonMin = -74.25
	lonMax = -73.70
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output CSV path")
	rows := flag.Int("rows", 1000, "number of rows to generate")
	year := flag.Int("year", 2020, "year to spread the incidents over")
	seed := flag.Int64("seed", 42, "random seed (fixed for reproducible fixtures)")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	file, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer file.Close() //nolint:errcheck // flushed and closed below

	rng := rand.New(rand.NewSource(*seed))
	w := csv.NewWriter(file)

	header := []string{"arrest_date", "latitude", "longitude", "ofns_desc", "arrest_boro", "arrest_precinct"}
	if err := w.Write(header); err != nil {
		return err
	}

	start := time.Date(*year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearSeconds := int64(time.Date(*year+1, time.January, 1, 0, 0, 0, 0, time.UTC).Sub(start).Seconds())

	for i := 0; i < *rows; i++ {
		ts := start.Add(time.Duration(rng.Int63n(yearSeconds)) * time.Second)
		row := []string{
			ts.Format("2006-01-02T15:04:05"),
			formatCoord(latMin + rng.Float64()*(latMax-latMin)),
			formatCoord(lonMin + rng.Float64()*(lonMax-lonMin)),
			categories[rng.Intn(len(categories))],
			boroughs[rng.Intn(len(boroughs))],
			strconv.Itoa(1 + rng.Intn(123)),
		}
		// A small fraction of rows without geolocation, mirroring the
		// real export's (0,0) sentinel.
		if rng.Intn(100) < 2 {
			row[1], row[2] = "0", "0"
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}

	log.Printf("wrote %d rows to %s", *rows, *out)
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
