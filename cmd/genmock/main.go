// Command genmock generates deterministic earthquake dataset fixtures for
// test suites and local development. It emits a raw CSV in the feed's shape
// plus the normalized JSON the same rows produce, using the actual domain
// package so fixtures never drift from normalizer behavior.
//
// Usage:
//
//	go run ./cmd/genmock -count 200 \
//	  -csv-out data/mock/eq_events.csv \
//	  -json-out data/mock/eq_events_normalized.json
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/seismoview/quake-catalog/internal/domain"
)

// seed keeps runs reproducible; regenerating a fixture must not churn diffs.
const seed = 20250101

var baseTime = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

type site struct {
	country string
	area    string
	city    string
	lat     float64
	lon     float64
	onLand  string
}

var sites = []site{
	{country: "Israel", area: "Dead Sea", city: "Ein Gedi", lat: 31.45, lon: 35.38, onLand: "true"},
	{country: "Israel", area: "North", city: "Tiberias", lat: 32.79, lon: 35.53, onLand: "true"},
	{country: "Israel", area: "South", city: "Eilat", lat: 29.55, lon: 34.95, onLand: "true"},
	{country: "Cyprus", area: "Cyprus", city: "Limassol", lat: 34.68, lon: 33.04, onLand: "false"},
	{country: "Egypt", area: "Sinai", city: "Nuweiba", lat: 28.97, lon: 34.65, onLand: "true"},
	{country: "Lebanon", area: "South Lebanon", city: "Tyre", lat: 33.27, lon: 35.19, onLand: "true"},
	{country: "Jordan", area: "Dead Sea", city: "Sweimeh", lat: 31.77, lon: 35.59, onLand: "true"},
	{country: "Greece", area: "Aegean Sea", city: "", lat: 36.41, lon: 25.40, onLand: "false"},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	count := flag.Int("count", 200, "number of events to generate")
	csvOut := flag.String("csv-out", "", "output path for the raw CSV fixture")
	jsonOut := flag.String("json-out", "", "output path for the normalized JSON fixture")
	flag.Parse()

	if *csvOut == "" || *jsonOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -csv-out, -json-out")
	}

	// Fixed clock so LoadedAt in the normalized fixture is reproducible.
	domain.SetClock(clockwork.NewFakeClockAt(baseTime))
	defer domain.SetClock(clockwork.NewRealClock())

	rows := generateRows(*count)
	result := domain.Dataset{Rows: rows}.Normalize()
	if result.Dropped != 0 {
		return fmt.Errorf("generated fixture dropped %d rows, want 0", result.Dropped)
	}

	if err := writeCSV(*csvOut, rows); err != nil {
		return fmt.Errorf("write CSV fixture: %w", err)
	}
	if err := writeJSON(*jsonOut, result.Records); err != nil {
		return fmt.Errorf("write JSON fixture: %w", err)
	}

	log.Printf("generated %d events: %s, %s", len(rows), *csvOut, *jsonOut)
	return nil
}

func generateRows(count int) []domain.RawCSVRow {
	rng := rand.New(rand.NewSource(seed))
	rows := make([]domain.RawCSVRow, 0, count)

	for i := 0; i < count; i++ {
		s := sites[rng.Intn(len(sites))]

		// Spread events over roughly five years behind the base time.
		offset := time.Duration(rng.Int63n(int64(5 * 365 * 24 * time.Hour)))
		at := baseTime.Add(-offset)

		mag := 1.5 + rng.Float64()*5.0
		depth := 2.0 + rng.Float64()*30.0

		felt := "EQ"
		if mag >= 4.0 && rng.Float64() < 0.6 {
			felt = "F"
		}

		rows = append(rows, domain.RawCSVRow{
			EpiID:     fmt.Sprintf("'%s%04d'", at.Format("20060102"), i),
			DateTime:  at.Format("02/01/2006 15:04:05"),
			Magnitude: fmt.Sprintf("%.1f", mag),
			Latitude:  fmt.Sprintf("%.4f", s.lat+rng.Float64()*0.5-0.25),
			Longitude: fmt.Sprintf("%.4f", s.lon+rng.Float64()*0.5-0.25),
			Depth:     fmt.Sprintf("%.1f", depth),
			FeltFlag:  felt,
			City:      s.city,
			Area:      s.area,
			Country:   s.country,
			OnLand:    s.onLand,
		})
	}
	return rows
}

func writeCSV(path string, rows []domain.RawCSVRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"epiid", "DateTime", "Mag", "Lat", "Long", "Depth(Km)", "Type", "City", "Area", "Country", "on_land"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{r.EpiID, r.DateTime, r.Magnitude, r.Latitude, r.Longitude, r.Depth, r.FeltFlag, r.City, r.Area, r.Country, r.OnLand}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeJSON(path string, records []domain.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
