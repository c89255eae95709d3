package domain

import "time"

// RawCSVRow holds one earthquake row as flat strings, the way the GSI CSV
// endpoint delivers it. Both the raw feed header names (epiid, DateTime, Mag,
// Lat, Long, Depth(Km), Type) and the cleaned dataset names (date-time,
// magnitude, latitude, ...) map onto the same fields; the source adapter is
// responsible for that mapping.
type RawCSVRow struct {
	EpiID       string `json:"epiid"`
	DateTime    string `json:"date-time"`
	Date        string `json:"date"`
	Magnitude   string `json:"magnitude"`
	MagnitudeML string `json:"ml,omitempty"` // local magnitude, secondary scale
	MagnitudeMD string `json:"md,omitempty"` // duration magnitude, tertiary scale
	Latitude    string `json:"latitude"`
	Longitude   string `json:"longitude"`
	Depth       string `json:"depth"`
	FeltFlag    string `json:"felt?"` // "EQ" = instrumental only, "F" = felt report
	City        string `json:"city,omitempty"`
	Area        string `json:"area,omitempty"`
	Country     string `json:"country,omitempty"`
	OnLand      string `json:"on_land,omitempty"`
	Location    string `json:"location_text,omitempty"`
}

// RawFeature is a GeoJSON-like feature as found in the cleaned dataset file.
// Coordinates are [lon, lat]; everything else lives in the properties bag.
type RawFeature struct {
	Geometry struct {
		Type        string    `json:"type"`
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// Record is the canonical earthquake event, immutable once constructed.
// A Record only exists if its coordinates and timestamp parsed; everything
// else degrades to zero values.
type Record struct {
	ID        string    `json:"id"`
	Time      time.Time `json:"time"`
	Magnitude float64   `json:"magnitude"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Depth     float64   `json:"depth"` // kilometers

	// Derived attributes.
	Year           int   `json:"year"`
	MagnitudeClass Class `json:"magnitude_class"`

	Country  string `json:"country,omitempty"`
	Area     string `json:"area,omitempty"`
	City     string `json:"city,omitempty"`
	Location string `json:"location_text,omitempty"`

	Felt bool `json:"felt"`

	// OnLand is nil when the source dataset lacks the on_land flag.
	// Statistics then fall back to the country heuristic dataset-wide.
	OnLand *bool `json:"on_land,omitempty"`
}

// NormalizeResult carries the normalized records plus an informational drop
// count. Dropped rows are expected (bad coordinates, unparsable dates) and
// never fail the batch.
type NormalizeResult struct {
	Records  []Record
	Dropped  int
	LoadedAt time.Time
}

// Dataset is a fully materialized raw dataset in one of the two source
// shapes. Exactly one of Rows or Features is expected to be populated.
type Dataset struct {
	Rows     []RawCSVRow
	Features []RawFeature
}

// Normalize runs the format-appropriate adapter over the dataset.
func (d Dataset) Normalize() NormalizeResult {
	if len(d.Features) > 0 {
		return NormalizeFeatures(d.Features)
	}
	return NormalizeRows(d.Rows)
}
