package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/seismoview/quake-catalog/internal/filter"
)

const (
	defaultLimit = 500
	maxLimit     = 5000
)

type pagination struct {
	limit  int
	offset int
}

// parseQuery narrows the base spec with the request's query parameters.
// Absent parameters keep the base (unconstrained) value, so a bare request
// returns the whole dataset.
func parseQuery(r *http.Request, base filter.Spec) (filter.Spec, pagination, error) {
	q := r.URL.Query()
	spec := base

	if v := q.Get("min_mag"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter.Spec{}, pagination{}, fmt.Errorf("invalid min_mag %q", v)
		}
		spec.Magnitude.Min = f
	}
	if v := q.Get("max_mag"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter.Spec{}, pagination{}, fmt.Errorf("invalid max_mag %q", v)
		}
		spec.Magnitude.Max = f
	}

	switch mode := q.Get("date_mode"); mode {
	case "":
	case string(filter.ModeRelative):
		spec.Date = filter.DateFilter{Mode: filter.ModeRelative, Window: filter.Window30Days}
		if w := q.Get("window"); w != "" {
			spec.Date.Window = filter.Window(w)
			if _, err := spec.Date.Window.Duration(); err != nil {
				return filter.Spec{}, pagination{}, err
			}
		}
	case string(filter.ModeRange):
		spec.Date = filter.DateFilter{Mode: filter.ModeRange, Years: base.Date.Years}
	default:
		return filter.Spec{}, pagination{}, fmt.Errorf("invalid date_mode %q", mode)
	}

	if v := q.Get("year_min"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter.Spec{}, pagination{}, fmt.Errorf("invalid year_min %q", v)
		}
		spec.Date.Years.Min = n
	}
	if v := q.Get("year_max"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter.Spec{}, pagination{}, fmt.Errorf("invalid year_max %q", v)
		}
		spec.Date.Years.Max = n
	}

	if v := q.Get("country"); v != "" {
		spec.Country = v
	}
	if v := q.Get("area"); v != "" {
		spec.Area = v
	}

	page := pagination{limit: defaultLimit}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return filter.Spec{}, pagination{}, fmt.Errorf("invalid limit %q", v)
		}
		if n > maxLimit {
			n = maxLimit
		}
		page.limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter.Spec{}, pagination{}, fmt.Errorf("invalid offset %q", v)
		}
		page.offset = n
	}

	return spec, page, nil
}
