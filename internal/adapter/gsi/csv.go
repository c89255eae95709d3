package gsi

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/seismoview/quake-catalog/internal/domain"
)

// headerFields maps the header names the GSI exports have used over the years
// to canonical row fields. Matching is case-insensitive after trimming.
var headerFields = map[string]func(*domain.RawCSVRow, string){
	"epiid":         func(r *domain.RawCSVRow, v string) { r.EpiID = v },
	"datetime":      func(r *domain.RawCSVRow, v string) { r.DateTime = v },
	"date-time":     func(r *domain.RawCSVRow, v string) { r.DateTime = v },
	"date":          func(r *domain.RawCSVRow, v string) { r.Date = v },
	"mag":           func(r *domain.RawCSVRow, v string) { r.Magnitude = v },
	"magnitude":     func(r *domain.RawCSVRow, v string) { r.Magnitude = v },
	"ml":            func(r *domain.RawCSVRow, v string) { r.MagnitudeML = v },
	"md":            func(r *domain.RawCSVRow, v string) { r.MagnitudeMD = v },
	"lat":           func(r *domain.RawCSVRow, v string) { r.Latitude = v },
	"latitude":      func(r *domain.RawCSVRow, v string) { r.Latitude = v },
	"long":          func(r *domain.RawCSVRow, v string) { r.Longitude = v },
	"lon":           func(r *domain.RawCSVRow, v string) { r.Longitude = v },
	"longitude":     func(r *domain.RawCSVRow, v string) { r.Longitude = v },
	"depth(km)":     func(r *domain.RawCSVRow, v string) { r.Depth = v },
	"depth":         func(r *domain.RawCSVRow, v string) { r.Depth = v },
	"type":          func(r *domain.RawCSVRow, v string) { r.FeltFlag = v },
	"felt?":         func(r *domain.RawCSVRow, v string) { r.FeltFlag = v },
	"city":          func(r *domain.RawCSVRow, v string) { r.City = v },
	"area":          func(r *domain.RawCSVRow, v string) { r.Area = v },
	"country":       func(r *domain.RawCSVRow, v string) { r.Country = v },
	"on_land":       func(r *domain.RawCSVRow, v string) { r.OnLand = v },
	"location_text": func(r *domain.RawCSVRow, v string) { r.Location = v },
}

// ReadRows parses a GSI-style CSV export. The header row decides which column
// lands in which field; unknown columns are ignored and record order is
// preserved exactly as the file has it.
func ReadRows(r io.Reader) ([]domain.RawCSVRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	setters := make([]func(*domain.RawCSVRow, string), len(header))
	known := 0
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if set, ok := headerFields[key]; ok {
			setters[i] = set
			known++
		}
	}
	if known == 0 {
		return nil, fmt.Errorf("no recognized columns in header %v", header)
	}

	var rows []domain.RawCSVRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}
		var row domain.RawCSVRow
		for i, value := range record {
			if i < len(setters) && setters[i] != nil {
				setters[i](&row, value)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
