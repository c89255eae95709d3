// Package domain models earthquake catalog data from the Geological Survey
// of Israel (GSI).
//
// # Data Source
//
// Events originate from the GSI earthquake feed at
// https://eq.gsi.gov.il/en/earthquake/files/last30_event.csv (rolling 30-day
// window) plus a historical archive back to 1900 kept as a cleaned GeoJSON
// file. Both shapes normalize into the same canonical [Record].
//
// # GSI Data Conventions
//
// Identifier:
//
//	The "epiid" column sometimes carries stray single quotes and whitespace
//	("'202403150412'"), which are stripped during normalization.
//
// Time format:
//
//	Day-first local convention: "15/03/2024 04:12:33" (DD/MM/YYYY HH:MM:SS).
//	The raw feed also emits ISO-8601 with a "T" separator; both are accepted.
//	A row whose date-time cannot be parsed is dropped: a dateless event is
//	not a usable data point for time filtering.
//
// Coordinates:
//
//	Decimal degrees WGS-84. The regional dataset never legitimately contains
//	an event at exactly 0 latitude or 0 longitude, so a zero coordinate marks
//	a failed upstream conversion and drops the row.
//
// Magnitude:
//
//	The "Mag" column is the preferred scale. Some historical rows carry only
//	secondary scales (Ml, Md), tried in that order. Sentinel values at or
//	below -900 mean "not measured" and fall through to the next candidate.
//	A row with no usable magnitude keeps magnitude 0 and classifies into the
//	lowest class; unmeasured is not an error.
//
// Felt flag:
//
//	The "Type" column distinguishes instrumental-only events ("EQ") from
//	events with human felt reports ("F"). Matching is case-insensitive and
//	also accepts a "felt" token for datasets that spell it out.
//
// Geography:
//
//	country/area/city are produced by the upstream enrichment pipeline.
//	Cyprus-related territory variants (sovereign base areas, "TRNC", UN
//	buffer zone spellings) all normalize to "Cyprus" per project policy, and
//	admin-1 areas aggregate into coarser regional buckets ("North", "South",
//	"HaMerkaz", ...) so filter dropdowns stay short. See [NormalizeCountry]
//	and [AggregateArea].
//
// # Magnitude Classes
//
// Events classify into an ordered five-band taxonomy with half-open,
// lower-inclusive intervals:
//
//	minor    [0.0, 3.0)
//	light    [3.0, 4.0)
//	moderate [4.0, 5.0)
//	strong   [5.0, 6.0)
//	major    [6.0, +inf)
//
// Every finite magnitude maps to exactly one class; values below the scale
// (including the unmeasured 0 default after a negative sentinel) land in the
// lowest band. See [ClassifyMagnitude].
package domain
