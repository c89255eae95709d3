package domain

import (
	"strconv"
	"strings"
	"time"
)

// eventTimeLayouts are tried in order. GSI's cleaned dataset uses the
// day-first layout; the raw feed emits ISO-8601 with a "T" separator.
var eventTimeLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// magnitudeCandidates is the ordered list of magnitude accessors. The first
// candidate with a parsable, non-sentinel value wins; dynamic field lookup is
// deliberately avoided.
var magnitudeCandidates = []func(RawCSVRow) string{
	func(r RawCSVRow) string { return r.Magnitude },
	func(r RawCSVRow) string { return r.MagnitudeML },
	func(r RawCSVRow) string { return r.MagnitudeMD },
}

// NormalizeRows converts raw CSV-shaped rows into canonical records.
// Rows with unparsable coordinates or timestamps are dropped and counted;
// all other malformed fields coerce to safe defaults. Input order is
// preserved for the surviving rows.
func NormalizeRows(rows []RawCSVRow) NormalizeResult {
	result := NormalizeResult{
		Records:  make([]Record, 0, len(rows)),
		LoadedAt: clock.Now(),
	}
	for _, row := range rows {
		rec, ok := normalizeRecord(row)
		if !ok {
			result.Dropped++
			continue
		}
		result.Records = append(result.Records, rec)
	}
	return result
}

// NormalizeFeatures converts GeoJSON-like features into canonical records by
// adapting each feature to the shared row shape first.
func NormalizeFeatures(features []RawFeature) NormalizeResult {
	rows := make([]RawCSVRow, len(features))
	for i, f := range features {
		rows[i] = featureToRow(f)
	}
	return NormalizeRows(rows)
}

// normalizeRecord builds one Record. Returns false when the row lacks valid
// coordinates or a parsable timestamp; such rows are not data points.
func normalizeRecord(row RawCSVRow) (Record, bool) {
	eventTime, ok := parseEventTime(row.DateTime, row.Date)
	if !ok {
		return Record{}, false
	}

	lat := parseFloatOrZero(row.Latitude)
	lon := parseFloatOrZero(row.Longitude)
	if lat == 0 || lon == 0 {
		return Record{}, false
	}

	magnitude := selectMagnitude(row)
	country := NormalizeCountry(strings.TrimSpace(row.Country))
	area := AggregateArea(country, strings.TrimSpace(row.Area))

	return Record{
		ID:             strings.TrimSpace(strings.Trim(strings.TrimSpace(row.EpiID), "'")),
		Time:           eventTime,
		Magnitude:      magnitude,
		Latitude:       lat,
		Longitude:      lon,
		Depth:          parseFloatOrZero(row.Depth),
		Year:           eventTime.Year(),
		MagnitudeClass: ClassifyMagnitude(magnitude),
		Country:        country,
		Area:           area,
		City:           strings.TrimSpace(row.City),
		Location:       strings.TrimSpace(row.Location),
		Felt:           parseFeltFlag(row.FeltFlag),
		OnLand:         parseOnLand(row.OnLand),
	}, true
}

// parseEventTime parses the combined date-time column, falling back to the
// date-only column. Returns false when neither parses.
func parseEventTime(dateTime, date string) (time.Time, bool) {
	for _, raw := range []string{dateTime, date} {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		for _, layout := range eventTimeLayouts {
			if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// selectMagnitude tries each magnitude scale in priority order, skipping
// blanks, unparsable values, and missing-value sentinels. All absent means
// unmeasured, which defaults to 0 and is not an error.
func selectMagnitude(row RawCSVRow) float64 {
	for _, candidate := range magnitudeCandidates {
		s := strings.TrimSpace(candidate(row))
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v <= missingMagnitude {
			continue
		}
		return v
	}
	return 0
}

// parseFeltFlag reports whether the event carries a human felt report.
// GSI uses "F" for felt and "EQ" for instrumental-only; a spelled-out
// "felt" token is also accepted.
func parseFeltFlag(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if strings.EqualFold(s, "F") || strings.EqualFold(s, "true") {
		return true
	}
	return strings.Contains(strings.ToLower(s), "felt")
}

// parseOnLand interprets the optional on_land flag. Nil means the source
// lacks the flag for this row.
func parseOnLand(s string) *bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "1", "yes":
		v := true
		return &v
	case "false", "f", "0", "no":
		v := false
		return &v
	default:
		return nil
	}
}

// parseFloatOrZero parses a string as float64, returning 0 on failure.
func parseFloatOrZero(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// featureToRow flattens a GeoJSON-like feature into the shared row shape.
// Geometry coordinates win over any lat/lon properties; the properties bag
// tolerates string, numeric, and boolean values.
func featureToRow(f RawFeature) RawCSVRow {
	row := RawCSVRow{
		EpiID:       propString(f.Properties, "epiid", "id"),
		DateTime:    propString(f.Properties, "date-time", "datetime"),
		Date:        propString(f.Properties, "date"),
		Magnitude:   propString(f.Properties, "magnitude", "mag"),
		MagnitudeML: propString(f.Properties, "ml"),
		MagnitudeMD: propString(f.Properties, "md"),
		Latitude:    propString(f.Properties, "latitude", "lat"),
		Longitude:   propString(f.Properties, "longitude", "long", "lon"),
		Depth:       propString(f.Properties, "depth"),
		FeltFlag:    propString(f.Properties, "felt?", "type"),
		City:        propString(f.Properties, "city"),
		Area:        propString(f.Properties, "area"),
		Country:     propString(f.Properties, "country"),
		OnLand:      propString(f.Properties, "on_land"),
		Location:    propString(f.Properties, "location_text"),
	}

	if len(f.Geometry.Coordinates) == 2 {
		row.Longitude = strconv.FormatFloat(f.Geometry.Coordinates[0], 'f', -1, 64)
		row.Latitude = strconv.FormatFloat(f.Geometry.Coordinates[1], 'f', -1, 64)
	}
	return row
}

// propString reads the first present key from a properties bag, stringifying
// numeric and boolean values. Missing keys and nulls yield "".
func propString(props map[string]any, keys ...string) string {
	for _, key := range keys {
		v, ok := props[key]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			return t
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64)
		case int:
			return strconv.Itoa(t)
		case bool:
			return strconv.FormatBool(t)
		}
	}
	return ""
}
