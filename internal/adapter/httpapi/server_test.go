package httpapi_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seismoview/quake-catalog/internal/adapter/httpapi"
	"github.com/seismoview/quake-catalog/internal/catalog"
	"github.com/seismoview/quake-catalog/internal/domain"
	"github.com/seismoview/quake-catalog/internal/observability"
)

func testRecord(id string, year int, mag float64, country, area string) domain.Record {
	return domain.Record{
		ID:             id,
		Time:           time.Date(year, 6, 15, 12, 0, 0, 0, time.UTC),
		Magnitude:      mag,
		Latitude:       32.0,
		Longitude:      35.0,
		Depth:          10,
		Year:           year,
		MagnitudeClass: domain.ClassifyMagnitude(mag),
		Country:        country,
		Area:           area,
	}
}

func newTestServer(t *testing.T, records []domain.Record) *httpapi.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	cat := catalog.New(logger, observability.NewMetricsForTesting(), 16)
	if records != nil {
		require.True(t, cat.Replace(catalog.Load{RequestID: "load-1", Seq: 1, Records: records}))
	}
	return httpapi.NewServer(":0", cat, logger)
}

func get(t *testing.T, srv *httpapi.Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func seedRecords() []domain.Record {
	return []domain.Record{
		testRecord("a", 2021, 4.5, "Israel", "Dead Sea"),
		testRecord("b", 2022, 2.1, "Israel", "North"),
		testRecord("c", 2023, 5.7, "Cyprus", "Cyprus"),
	}
}

func TestHealthz(t *testing.T) {
	rec := get(t, newTestServer(t, nil), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyz(t *testing.T) {
	t.Run("503 before first load", func(t *testing.T) {
		rec := get(t, newTestServer(t, nil), "/readyz")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("200 after load", func(t *testing.T) {
		rec := get(t, newTestServer(t, seedRecords()), "/readyz")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(t, newTestServer(t, nil), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestEarthquakes(t *testing.T) {
	srv := newTestServer(t, seedRecords())

	decode := func(t *testing.T, rec *httptest.ResponseRecorder) (map[string]any, []map[string]any) {
		t.Helper()
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		raw, err := json.Marshal(body["records"])
		require.NoError(t, err)
		var records []map[string]any
		require.NoError(t, json.Unmarshal(raw, &records))
		return body, records
	}

	t.Run("bare request returns the whole dataset", func(t *testing.T) {
		rec := get(t, srv, "/api/earthquakes")
		require.Equal(t, http.StatusOK, rec.Code)
		body, records := decode(t, rec)
		assert.Equal(t, float64(3), body["total"])
		assert.Len(t, records, 3)
		assert.Equal(t, "load-1", body["version"])
	})

	t.Run("magnitude bounds narrow the subset", func(t *testing.T) {
		rec := get(t, srv, "/api/earthquakes?min_mag=4&max_mag=5")
		require.Equal(t, http.StatusOK, rec.Code)
		_, records := decode(t, rec)
		require.Len(t, records, 1)
		assert.Equal(t, "a", records[0]["id"])
	})

	t.Run("year range narrows the subset", func(t *testing.T) {
		rec := get(t, srv, "/api/earthquakes?year_min=2022&year_max=2023")
		require.Equal(t, http.StatusOK, rec.Code)
		body, _ := decode(t, rec)
		assert.Equal(t, float64(2), body["total"])
	})

	t.Run("country filter", func(t *testing.T) {
		rec := get(t, srv, "/api/earthquakes?country=Cyprus")
		require.Equal(t, http.StatusOK, rec.Code)
		_, records := decode(t, rec)
		require.Len(t, records, 1)
		assert.Equal(t, "c", records[0]["id"])
	})

	t.Run("pagination slices the subset", func(t *testing.T) {
		rec := get(t, srv, "/api/earthquakes?limit=1&offset=1")
		require.Equal(t, http.StatusOK, rec.Code)
		body, records := decode(t, rec)
		assert.Equal(t, float64(3), body["total"])
		require.Len(t, records, 1)
		assert.Equal(t, "b", records[0]["id"])
	})

	t.Run("offset beyond the subset yields an empty page", func(t *testing.T) {
		rec := get(t, srv, "/api/earthquakes?offset=10")
		require.Equal(t, http.StatusOK, rec.Code)
		_, records := decode(t, rec)
		assert.Empty(t, records)
	})

	t.Run("invalid parameter is a 400", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, get(t, srv, "/api/earthquakes?min_mag=abc").Code)
		assert.Equal(t, http.StatusBadRequest, get(t, srv, "/api/earthquakes?date_mode=bogus").Code)
		assert.Equal(t, http.StatusBadRequest, get(t, srv, "/api/earthquakes?date_mode=relative&window=fortnight").Code)
		assert.Equal(t, http.StatusBadRequest, get(t, srv, "/api/earthquakes?limit=0").Code)
	})

	t.Run("503 before first load", func(t *testing.T) {
		empty := newTestServer(t, nil)
		assert.Equal(t, http.StatusServiceUnavailable, get(t, empty, "/api/earthquakes").Code)
	})
}

func TestOptions(t *testing.T) {
	srv := newTestServer(t, seedRecords())

	rec := get(t, srv, "/api/options?country=Israel")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Countries []string `json:"countries"`
		Areas     []string `json:"areas"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	// Country selection never hides other countries, only narrows areas.
	assert.Equal(t, []string{"Cyprus", "Israel"}, body.Countries)
	assert.Equal(t, []string{"Dead Sea", "North"}, body.Areas)
}

func TestStats(t *testing.T) {
	srv := newTestServer(t, seedRecords())

	rec := get(t, srv, "/api/stats?country=Israel")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count     int     `json:"count"`
		MaxMag    float64 `json:"max_magnitude"`
		Strongest *struct {
			ID string `json:"id"`
		} `json:"strongest"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, 4.5, body.MaxMag)
	require.NotNil(t, body.Strongest)
	assert.Equal(t, "a", body.Strongest.ID)
}

func TestFilterEndpoints(t *testing.T) {
	srv := newTestServer(t, seedRecords())

	t.Run("GET returns the active selection", func(t *testing.T) {
		rec := get(t, srv, "/api/filter")
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, float64(3), body["count"])
	})

	t.Run("PUT replaces the active selection", func(t *testing.T) {
		payload := `{"magnitude":{"min":5,"max":10},"date":{"mode":"range","years":{"min":2021,"max":2023}},"country":"all","area":"all"}`
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/filter", strings.NewReader(payload))
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, float64(1), body["count"])

		rec = get(t, srv, "/api/filter")
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, float64(1), body["count"])
	})

	t.Run("PUT with invalid body is a 400", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/filter", strings.NewReader("not json"))
		srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("PUT with unknown window is a 400", func(t *testing.T) {
		payload := `{"magnitude":{"min":0,"max":10},"date":{"mode":"relative","window":"fortnight"},"country":"all","area":"all"}`
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/filter", strings.NewReader(payload))
		srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
