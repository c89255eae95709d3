// Command validate performs integrity checks on an earthquake dataset file
// (CSV or GeoJSON). It verifies schema presence, coordinate and magnitude
// sanity, identifier uniqueness, geography normalization, and that the
// normalizer's drop count stays within tolerance.
//
// Usage:
//
//	go run ./cmd/validate -dataset data/last30_event.csv
//	go run ./cmd/validate -dataset data/eq_events.geojson -max-drop-ratio 0.05
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/seismoview/quake-catalog/internal/adapter/gsi"
	"github.com/seismoview/quake-catalog/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataset := flag.String("dataset", "", "path to a CSV or GeoJSON dataset file")
	maxDropRatio := flag.Float64("max-drop-ratio", 0.02, "maximum tolerated fraction of dropped rows")
	flag.Parse()

	if *dataset == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*dataset, *maxDropRatio); code != 0 {
		os.Exit(code)
	}
}

func run(path string, maxDropRatio float64) int {
	// Fixed clock so relative-window sanity checks are reproducible.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(clockwork.NewRealClock())

	fmt.Println("=== Earthquake Dataset Validation ===")
	fmt.Println()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ds, err := gsi.NewFileSource(path, logger).Fetch(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load dataset: %v\n", err)
		return 1
	}

	result := ds.Normalize()
	rawCount := len(ds.Rows) + len(ds.Features)

	phases := []*phase{
		validateSchema(ds),
		validateNormalization(result, rawCount, maxDropRatio),
		validateRecords(result.Records),
		validateGeography(result.Records),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = "FAIL"
			allPassed = false
		}
		fmt.Printf("[%s] %s\n", status, p.name)
		for _, e := range p.errors {
			fmt.Printf("       - %s\n", e)
		}
	}

	fmt.Println()
	if !allPassed {
		fmt.Println("validation FAILED")
		return 1
	}
	fmt.Printf("validation passed: %d records, %d dropped\n", len(result.Records), result.Dropped)
	return 0
}

// validateSchema checks the raw rows for the fields the normalizer depends on.
func validateSchema(ds domain.Dataset) *phase {
	p := &phase{name: "schema presence"}

	if len(ds.Rows) == 0 && len(ds.Features) == 0 {
		p.errorf("dataset is empty")
		return p
	}

	for i, row := range ds.Rows {
		if strings.TrimSpace(row.EpiID) == "" {
			p.errorf("row %d: missing epiid", i)
		}
		if row.DateTime == "" && row.Date == "" {
			p.errorf("row %d (%s): no date field", i, row.EpiID)
		}
		if row.Latitude == "" || row.Longitude == "" {
			p.errorf("row %d (%s): missing coordinates", i, row.EpiID)
		}
	}

	for i, f := range ds.Features {
		if f.Geometry.Type != "" && f.Geometry.Type != "Point" {
			p.errorf("feature %d: geometry type %q, want Point", i, f.Geometry.Type)
		}
		if len(f.Geometry.Coordinates) != 0 && len(f.Geometry.Coordinates) < 2 {
			p.errorf("feature %d: %d coordinates, want 2", i, len(f.Geometry.Coordinates))
		}
	}

	return p
}

// validateNormalization checks that the drop rate stays within tolerance and
// record identifiers come out clean and unique.
func validateNormalization(result domain.NormalizeResult, rawCount int, maxDropRatio float64) *phase {
	p := &phase{name: "normalization integrity"}

	if rawCount > 0 {
		ratio := float64(result.Dropped) / float64(rawCount)
		if ratio > maxDropRatio {
			p.errorf("dropped %d of %d rows (%.1f%%), tolerance %.1f%%",
				result.Dropped, rawCount, ratio*100, maxDropRatio*100)
		}
	}

	seen := make(map[string]int, len(result.Records))
	for i, r := range result.Records {
		if r.ID == "" {
			p.errorf("record %d: empty id", i)
			continue
		}
		if strings.ContainsAny(r.ID, "'\" ") {
			p.errorf("record %d: id %q not cleaned", i, r.ID)
		}
		if prev, dup := seen[r.ID]; dup {
			p.errorf("duplicate id %q at records %d and %d", r.ID, prev, i)
		}
		seen[r.ID] = i
	}

	return p
}

// validateRecords checks per-record value sanity.
func validateRecords(records []domain.Record) *phase {
	p := &phase{name: "record sanity"}

	for _, r := range records {
		if r.Latitude < -90 || r.Latitude > 90 {
			p.errorf("%s: latitude %.4f out of range", r.ID, r.Latitude)
		}
		if r.Longitude < -180 || r.Longitude > 180 {
			p.errorf("%s: longitude %.4f out of range", r.ID, r.Longitude)
		}
		if r.Latitude == 0 && r.Longitude == 0 {
			p.errorf("%s: null island coordinates survived normalization", r.ID)
		}
		if r.Magnitude < 0 || r.Magnitude > 10 {
			p.errorf("%s: magnitude %.2f out of range", r.ID, r.Magnitude)
		}
		if r.Depth < 0 || r.Depth > 800 {
			p.errorf("%s: depth %.1f km out of range", r.ID, r.Depth)
		}
		if r.Time.IsZero() {
			p.errorf("%s: zero timestamp survived normalization", r.ID)
		}
		if r.Year != r.Time.Year() {
			p.errorf("%s: year %d disagrees with timestamp %s", r.ID, r.Year, r.Time)
		}
		if r.MagnitudeClass != domain.ClassifyMagnitude(r.Magnitude) {
			p.errorf("%s: class %q disagrees with magnitude %.2f", r.ID, r.MagnitudeClass, r.Magnitude)
		}
	}

	return p
}

// validateGeography checks that country normalization collapsed the known
// upstream spelling variants.
func validateGeography(records []domain.Record) *phase {
	p := &phase{name: "geography normalization"}

	for _, r := range records {
		country := strings.ToLower(r.Country)
		if strings.Contains(country, "cyprus") && r.Country != "Cyprus" {
			p.errorf("%s: country %q should have normalized to Cyprus", r.ID, r.Country)
		}
		if want := domain.NormalizeCountry(r.Country); want != r.Country {
			p.errorf("%s: country %q not fully normalized (want %q)", r.ID, r.Country, want)
		}
		if want := domain.AggregateArea(r.Country, r.Area); want != r.Area {
			p.errorf("%s: area %q not fully aggregated (want %q)", r.ID, r.Area, want)
		}
	}

	return p
}
