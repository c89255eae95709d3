// Package filter implements the composite earthquake filter: a pure engine
// combining magnitude, date, country, and area predicates, plus the
// cascading-options calculator that keeps dependent UI controls consistent.
package filter

import (
	"fmt"
	"time"
)

// AllValues is the unconstrained sentinel for the country and area dimensions.
const AllValues = "all"

// MagnitudeCeiling is the slider's upper sentinel. A range whose Max reaches
// the ceiling means "and above": the upper bound is not applied.
const MagnitudeCeiling = 10.0

// MagnitudeRange is an inclusive magnitude interval.
type MagnitudeRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// YearRange is an inclusive calendar-year interval.
type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Span is the number of calendar years the range covers, inclusive.
// A reversed range is treated as already swapped.
func (r YearRange) Span() int {
	if r.Min > r.Max {
		r.Min, r.Max = r.Max, r.Min
	}
	return r.Max - r.Min + 1
}

// DateMode tags the date filter variant.
type DateMode string

const (
	// ModeRelative selects a rolling window ending now.
	ModeRelative DateMode = "relative"
	// ModeRange selects an inclusive calendar-year interval.
	ModeRange DateMode = "range"
)

// Window enumerates the relative-mode rolling windows.
type Window string

const (
	WindowDay     Window = "day"
	Window7Days   Window = "7days"
	Window30Days  Window = "30days"
	WindowYear    Window = "year"
)

// Duration converts a window to its rolling length. Unknown windows are a
// contract violation upstream, not a data problem, so they surface as errors.
func (w Window) Duration() (time.Duration, error) {
	switch w {
	case WindowDay:
		return 24 * time.Hour, nil
	case Window7Days:
		return 7 * 24 * time.Hour, nil
	case Window30Days:
		return 30 * 24 * time.Hour, nil
	case WindowYear:
		return 365 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown relative window %q", string(w))
	}
}

// DateFilter is the tagged union of the two date modes. Window is read in
// relative mode, Years in range mode.
type DateFilter struct {
	Mode   DateMode  `json:"mode"`
	Window Window    `json:"window,omitempty"`
	Years  YearRange `json:"years,omitempty"`
}

// Spec is the composite filter selection. It is a plain value: passing it by
// value is the snapshot clone the engine relies on, so a caller mutating its
// own copy mid-computation cannot tear a result.
type Spec struct {
	Magnitude MagnitudeRange `json:"magnitude"`
	Date      DateFilter     `json:"date"`
	Country   string         `json:"country"`
	Area      string         `json:"area"`
}

// Unconstrained returns a spec that passes every record whose year falls in
// the dataset's span: full magnitude range, the given year range, and both
// geography dimensions open.
func Unconstrained(years YearRange) Spec {
	return Spec{
		Magnitude: MagnitudeRange{Min: 0, Max: MagnitudeCeiling},
		Date:      DateFilter{Mode: ModeRange, Years: years},
		Country:   AllValues,
		Area:      AllValues,
	}
}

// normalized repairs transiently invalid ranges (min beyond max mid-drag)
// by swapping bounds instead of failing.
func (s Spec) normalized() Spec {
	if s.Magnitude.Min > s.Magnitude.Max {
		s.Magnitude.Min, s.Magnitude.Max = s.Magnitude.Max, s.Magnitude.Min
	}
	if s.Date.Years.Min > s.Date.Years.Max {
		s.Date.Years.Min, s.Date.Years.Max = s.Date.Years.Max, s.Date.Years.Min
	}
	if s.Country == "" {
		s.Country = AllValues
	}
	if s.Area == "" {
		s.Area = AllValues
	}
	return s
}
