package filter

import (
	"slices"

	"github.com/seismoview/quake-catalog/internal/domain"
)

// Options is the cascading-availability snapshot: for each filter dimension,
// the values that would still yield results if that dimension alone were
// changed, holding every other dimension at its current selection.
type Options struct {
	// YearLimits is nil when no record survives the other filters; the
	// caller should keep its previous limits rather than collapse the slider
	// to an invalid range.
	YearLimits *YearRange `json:"year_limits,omitempty"`

	Countries []string `json:"countries"`
	Areas     []string `json:"areas"`

	// MagnitudeClasses are the classes still represented. The UI greys out
	// absent classes rather than hiding them.
	MagnitudeClasses []domain.Class `json:"magnitude_classes"`
}

// HasCountry reports whether the given country remains selectable, so the
// caller can detect that its current selection turned incompatible and fall
// back to "all".
func (o Options) HasCountry(country string) bool {
	return country == AllValues || slices.Contains(o.Countries, country)
}

// HasArea reports whether the given area remains selectable.
func (o Options) HasArea(area string) bool {
	return area == AllValues || slices.Contains(o.Areas, area)
}

// HasClass reports whether the given magnitude class is still represented.
func (o Options) HasClass(class domain.Class) bool {
	return slices.Contains(o.MagnitudeClasses, class)
}

// ComputeAvailableOptions runs one reduced filter pass per dimension: the
// dimension's own constraint is lifted, every other constraint stays at its
// current value. The four passes are independent; none observes another's
// newly computed availability. Worst case this is four full scans.
func ComputeAvailableOptions(records []domain.Record, spec Spec) (Options, error) {
	preds, err := compile(spec)
	if err != nil {
		return Options{}, err
	}

	var opts Options

	// Year dimension: lift the date constraint.
	yearPass := preds
	yearPass.date = nil
	opts.YearLimits = yearLimits(records, yearPass)

	// Country dimension: lift the country constraint.
	countryPass := preds
	countryPass.country = nil
	opts.Countries = distinctValues(records, countryPass, func(r domain.Record) string { return r.Country })

	// Area dimension: lift the area constraint.
	areaPass := preds
	areaPass.area = nil
	opts.Areas = distinctValues(records, areaPass, func(r domain.Record) string { return r.Area })

	// Magnitude-class dimension: lift the magnitude constraint.
	classPass := preds
	classPass.magnitude = nil
	opts.MagnitudeClasses = presentClasses(records, classPass)

	return opts, nil
}

// yearLimits finds the min and max year over the records passing preds,
// or nil when none do.
func yearLimits(records []domain.Record, preds predicateSet) *YearRange {
	var limits *YearRange
	for _, r := range records {
		if r.Year == 0 || !preds.all(r) {
			continue
		}
		if limits == nil {
			limits = &YearRange{Min: r.Year, Max: r.Year}
			continue
		}
		if r.Year < limits.Min {
			limits.Min = r.Year
		}
		if r.Year > limits.Max {
			limits.Max = r.Year
		}
	}
	return limits
}

// distinctValues collects the sorted distinct non-empty values of one field
// over the records passing preds. Empty fields mean "unknown" and are never
// offered as options.
func distinctValues(records []domain.Record, preds predicateSet, field func(domain.Record) string) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		v := field(r)
		if v == "" || !preds.all(r) {
			continue
		}
		seen[v] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// presentClasses returns the represented classes in taxonomy order.
func presentClasses(records []domain.Record, preds predicateSet) []domain.Class {
	seen := make(map[domain.Class]struct{})
	for _, r := range records {
		if preds.all(r) {
			seen[r.MagnitudeClass] = struct{}{}
		}
	}

	out := make([]domain.Class, 0, len(seen))
	for _, class := range domain.Classes() {
		if _, ok := seen[class]; ok {
			out = append(out, class)
		}
	}
	return out
}
