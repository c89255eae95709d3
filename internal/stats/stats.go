// Package stats computes summary numbers over a filtered earthquake subset.
// It is a pure calculation layer: no I/O, no errors, and every aggregate
// degrades to zero on empty input instead of NaN.
package stats

import (
	"github.com/seismoview/quake-catalog/internal/domain"
	"github.com/seismoview/quake-catalog/internal/filter"
)

// Summary holds the aggregates the statistics panel renders.
type Summary struct {
	Count        int     `json:"count"`
	AvgMagnitude float64 `json:"avg_magnitude"`
	AvgDepth     float64 `json:"avg_depth"`
	MaxMagnitude float64 `json:"max_magnitude"`

	// Strongest is the record achieving MaxMagnitude, ties broken by first
	// occurrence. Nil on empty input.
	Strongest *domain.Record `json:"strongest,omitempty"`

	// AvgPerYear is only meaningful in range-date mode; nil in relative mode.
	AvgPerYear *float64 `json:"avg_per_year,omitempty"`

	LandCount  int     `json:"land_count"`
	WaterCount int     `json:"water_count"`
	LandRatio  float64 `json:"land_ratio"`

	FeltCount int `json:"felt_count"`

	// EventsPerYear feeds the per-year histogram.
	EventsPerYear map[int]int `json:"events_per_year"`
}

// Compute aggregates the subset. Pass the active year range in range-date
// mode so AvgPerYear can be derived; pass nil in relative mode.
//
// Land/water counting inspects the whole subset once: if any record carries
// the on_land flag, the flag governs every record (absent flag counts as
// water); otherwise a non-empty country field implies land. The country
// heuristic is a known approximation near coastlines.
func Compute(subset []domain.Record, years *filter.YearRange) Summary {
	s := Summary{EventsPerYear: make(map[int]int)}
	s.Count = len(subset)
	if s.Count == 0 {
		return s
	}

	var magSum, depthSum float64
	for i := range subset {
		rec := &subset[i]
		magSum += rec.Magnitude
		depthSum += rec.Depth
		if s.Strongest == nil || rec.Magnitude > s.MaxMagnitude {
			s.MaxMagnitude = rec.Magnitude
			s.Strongest = rec
		}
		if rec.Felt {
			s.FeltCount++
		}
		if rec.Year != 0 {
			s.EventsPerYear[rec.Year]++
		}
	}
	s.AvgMagnitude = magSum / float64(s.Count)
	s.AvgDepth = depthSum / float64(s.Count)

	s.LandCount, s.WaterCount = countLandWater(subset)
	s.LandRatio = float64(s.LandCount) / float64(s.Count)

	if years != nil {
		if span := years.Span(); span > 0 {
			perYear := float64(s.Count) / float64(span)
			s.AvgPerYear = &perYear
		}
	}

	return s
}

// countLandWater decides the counting mode for the whole subset, never per
// record: the explicit flag when any record has one, else the country
// heuristic.
func countLandWater(subset []domain.Record) (land, water int) {
	hasFlag := false
	for i := range subset {
		if subset[i].OnLand != nil {
			hasFlag = true
			break
		}
	}

	for i := range subset {
		rec := &subset[i]
		onLand := false
		if hasFlag {
			onLand = rec.OnLand != nil && *rec.OnLand
		} else {
			onLand = rec.Country != ""
		}
		if onLand {
			land++
		} else {
			water++
		}
	}
	return land, water
}
