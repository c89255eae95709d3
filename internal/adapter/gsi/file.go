package gsi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/seismoview/quake-catalog/internal/domain"
)

// FileSource loads a dataset from a local CSV or GeoJSON file. The format is
// picked by extension, defaulting to CSV.
type FileSource struct {
	path   string
	logger *slog.Logger
}

func NewFileSource(path string, logger *slog.Logger) *FileSource {
	return &FileSource{path: path, logger: logger}
}

func (s *FileSource) Fetch(_ context.Context) (domain.Dataset, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(s.path))
	if ext == ".json" || ext == ".geojson" {
		features, err := ReadFeatures(f)
		if err != nil {
			return domain.Dataset{}, fmt.Errorf("parse %s: %w", s.path, err)
		}
		s.logger.Debug("loaded dataset file", "path", s.path, "features", len(features))
		return domain.Dataset{Features: features}, nil
	}

	rows, err := ReadRows(f)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("parse %s: %w", s.path, err)
	}
	s.logger.Debug("loaded dataset file", "path", s.path, "rows", len(rows))
	return domain.Dataset{Rows: rows}, nil
}

type featureCollection struct {
	Type     string              `json:"type"`
	Features []domain.RawFeature `json:"features"`
}

// ReadFeatures parses a GeoJSON FeatureCollection. A bare feature array is
// also accepted since some exports skip the collection wrapper.
func ReadFeatures(r io.Reader) ([]domain.RawFeature, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var features []domain.RawFeature
		if err := json.Unmarshal(raw, &features); err != nil {
			return nil, err
		}
		return features, nil
	}

	var fc featureCollection
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, err
	}
	if fc.Type != "" && fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("unexpected GeoJSON type %q", fc.Type)
	}
	return fc.Features, nil
}
