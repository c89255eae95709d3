package filter

import (
	"fmt"

	"github.com/seismoview/quake-catalog/internal/domain"
	"github.com/seismoview/quake-catalog/internal/index"
)

// predicate accepts or rejects a single record.
type predicate func(domain.Record) bool

// predicateSet holds one compiled predicate per filter dimension so the
// cascading calculator can apply all-but-one.
type predicateSet struct {
	magnitude predicate
	date      predicate
	country   predicate
	area      predicate
}

// all combines the set's active predicates with AND.
func (p predicateSet) all(r domain.Record) bool {
	for _, pred := range []predicate{p.magnitude, p.date, p.country, p.area} {
		if pred != nil && !pred(r) {
			return false
		}
	}
	return true
}

// Apply returns the records satisfying every dimension of spec, in input
// order. The input slice and its elements are never mutated. Data problems
// never error; only an impossible date-mode tag does.
func Apply(records []domain.Record, spec Spec) ([]domain.Record, error) {
	preds, err := compile(spec)
	if err != nil {
		return nil, err
	}
	return scan(records, preds.all), nil
}

// ApplyIndexed behaves exactly like Apply but walks the year index when the
// spec is a pure year-range query (geography unconstrained). Output is
// identical to the full scan: positions come back in base-slice order.
func ApplyIndexed(records []domain.Record, idx *index.Set, spec Spec) ([]domain.Record, error) {
	spec = spec.normalized()
	if !idx.Covers(records) || spec.Date.Mode != ModeRange ||
		spec.Country != AllValues || spec.Area != AllValues {
		return Apply(records, spec)
	}

	preds, err := compile(spec)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Record, 0)
	for _, pos := range idx.YearRangePositions(spec.Date.Years.Min, spec.Date.Years.Max) {
		if preds.magnitude(records[pos]) {
			out = append(out, records[pos])
		}
	}
	return out, nil
}

// compile normalizes the spec and builds one predicate per dimension.
// The relative-mode cutoff is fixed here, at compile time, so a single
// filter pass observes one consistent "now".
func compile(spec Spec) (predicateSet, error) {
	spec = spec.normalized()

	var preds predicateSet

	min, max := spec.Magnitude.Min, spec.Magnitude.Max
	unboundedAbove := max >= MagnitudeCeiling
	preds.magnitude = func(r domain.Record) bool {
		return r.Magnitude >= min && (unboundedAbove || r.Magnitude <= max)
	}

	switch spec.Date.Mode {
	case ModeRelative:
		d, err := spec.Date.Window.Duration()
		if err != nil {
			return predicateSet{}, err
		}
		cutoff := domain.Clock().Now().Add(-d)
		preds.date = func(r domain.Record) bool {
			return !r.Time.IsZero() && !r.Time.Before(cutoff)
		}
	case ModeRange:
		years := spec.Date.Years
		preds.date = func(r domain.Record) bool {
			return r.Year != 0 && r.Year >= years.Min && r.Year <= years.Max
		}
	default:
		return predicateSet{}, fmt.Errorf("unknown date mode %q", string(spec.Date.Mode))
	}

	if country := spec.Country; country != AllValues {
		preds.country = func(r domain.Record) bool {
			return r.Country != "" && r.Country == country
		}
	}
	if area := spec.Area; area != AllValues {
		preds.area = func(r domain.Record) bool {
			return r.Area != "" && r.Area == area
		}
	}

	return preds, nil
}

// scan collects the records passing pred into a fresh slice.
func scan(records []domain.Record, pred predicate) []domain.Record {
	out := make([]domain.Record, 0)
	for _, r := range records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}
