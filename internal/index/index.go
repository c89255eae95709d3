// Package index builds auxiliary lookup structures over a normalized record
// set so year-range filters avoid full scans. Indices are pure derived views:
// rebuilt wholesale on every data load, never patched in place.
package index

import (
	"sort"

	"github.com/seismoview/quake-catalog/internal/domain"
)

// Set groups record positions by year and by magnitude class. Buckets hold
// positions into the record slice the Set was built from, not copies, so a
// bucket scan reproduces the base slice's iteration order exactly.
type Set struct {
	ByYear  map[int][]int
	ByClass map[domain.Class][]int

	// size is the record count at build time, kept so callers can detect a
	// stale Set being applied to a different record slice.
	size int
}

// Build constructs indices in a single pass. Records with a zero year are
// skipped from the year buckets. Empty input is valid and yields empty maps.
func Build(records []domain.Record) *Set {
	s := &Set{
		ByYear:  make(map[int][]int),
		ByClass: make(map[domain.Class][]int),
		size:    len(records),
	}
	for i, rec := range records {
		if rec.Year != 0 {
			s.ByYear[rec.Year] = append(s.ByYear[rec.Year], i)
		}
		s.ByClass[rec.MagnitudeClass] = append(s.ByClass[rec.MagnitudeClass], i)
	}
	return s
}

// Covers reports whether the Set was built from a record slice of this length.
func (s *Set) Covers(records []domain.Record) bool {
	return s != nil && s.size == len(records)
}

// YearRangePositions returns the positions of all records whose year falls in
// [min, max], sorted ascending so iteration matches a full scan of the base
// slice position for position.
func (s *Set) YearRangePositions(min, max int) []int {
	if min > max {
		min, max = max, min
	}
	var positions []int
	for year := min; year <= max; year++ {
		positions = append(positions, s.ByYear[year]...)
	}
	sort.Ints(positions)
	return positions
}
