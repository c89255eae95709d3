package catalog

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seismoview/quake-catalog/internal/domain"
	"github.com/seismoview/quake-catalog/internal/filter"
	"github.com/seismoview/quake-catalog/internal/observability"
)

func record(id string, year int, magnitude float64, country string) domain.Record {
	return domain.Record{
		ID:             id,
		Time:           time.Date(year, 6, 15, 12, 0, 0, 0, time.UTC),
		Year:           year,
		Magnitude:      magnitude,
		MagnitudeClass: domain.ClassifyMagnitude(magnitude),
		Country:        country,
	}
}

func newTestCatalog() *Catalog {
	return New(slog.Default(), observability.NewMetricsForTesting(), 8)
}

func testLoad(seq uint64, records ...domain.Record) Load {
	return Load{RequestID: "load-" + string(rune('0'+seq)), Seq: seq, Records: records}
}

func TestCatalog_Replace(t *testing.T) {
	t.Run("first load readies the catalog with an unconstrained spec", func(t *testing.T) {
		c := newTestCatalog()
		require.Error(t, c.CheckReadiness(context.Background()))

		ok := c.Replace(testLoad(1,
			record("a", 1995, 3.0, "Jordan"),
			record("b", 2020, 5.5, "Israel"),
		))

		require.True(t, ok)
		require.NoError(t, c.CheckReadiness(context.Background()))
		assert.Equal(t, 2, c.Size())

		spec := c.Spec()
		assert.Equal(t, filter.YearRange{Min: 1995, Max: 2020}, spec.Date.Years)
		assert.Equal(t, filter.AllValues, spec.Country)

		snap, ok := c.Snapshot()
		require.True(t, ok)
		assert.Len(t, snap.Records, 2)
		assert.Equal(t, 2, snap.Stats.Count)
	})

	t.Run("stale load is discarded, never merged", func(t *testing.T) {
		c := newTestCatalog()
		require.True(t, c.Replace(testLoad(2, record("newer", 2020, 4.0, ""))))

		ok := c.Replace(testLoad(1, record("older", 2010, 4.0, "")))

		assert.False(t, ok)
		snap, _ := c.Snapshot()
		require.Len(t, snap.Records, 1)
		assert.Equal(t, "newer", snap.Records[0].ID)
	})

	t.Run("replace keeps the active spec but invalidates cached snapshots", func(t *testing.T) {
		c := newTestCatalog()
		require.True(t, c.Replace(testLoad(1, record("a", 2010, 4.0, "Jordan"))))

		spec := filter.Unconstrained(filter.YearRange{Min: 2000, Max: 2020})
		spec.Country = "Jordan"
		_, err := c.SetSpec(spec)
		require.NoError(t, err)
		assert.Positive(t, c.cache.len())

		require.True(t, c.Replace(testLoad(2, record("b", 2011, 4.0, "Jordan"))))

		assert.Equal(t, spec, c.Spec())
		snap, _ := c.Snapshot()
		assert.Equal(t, []string{"b"}, recordIDs(snap.Records))
	})
}

func recordIDs(records []domain.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestCatalog_SetSpec(t *testing.T) {
	c := newTestCatalog()
	require.True(t, c.Replace(testLoad(1,
		record("a", 2010, 5.5, "Jordan"),
		record("b", 2015, 3.2, "Israel"),
	)))

	spec := filter.Unconstrained(filter.YearRange{Min: 1900, Max: 2100})
	spec.Magnitude = filter.MagnitudeRange{Min: 5, Max: 7}

	snap, err := c.SetSpec(spec)
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, recordIDs(snap.Records))
	assert.Equal(t, 1, snap.Stats.Count)
	assert.Equal(t, 5.5, snap.Stats.MaxMagnitude)
	// Countries pass keeps the magnitude constraint: only Jordan qualifies.
	assert.Equal(t, []string{"Jordan"}, snap.Options.Countries)

	current, ok := c.Snapshot()
	require.True(t, ok)
	assert.Empty(t, cmp.Diff(snap, current))
}

func TestCatalog_SetSpec_CachesRangeMode(t *testing.T) {
	c := newTestCatalog()
	require.True(t, c.Replace(testLoad(1, record("a", 2010, 4.0, ""))))

	spec := filter.Unconstrained(filter.YearRange{Min: 2000, Max: 2020})

	first, err := c.SetSpec(spec)
	require.NoError(t, err)
	entries := c.cache.len()

	second, err := c.SetSpec(spec)
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(first, second))
	assert.Equal(t, entries, c.cache.len(), "repeat query should hit, not grow, the cache")
}

func TestCatalog_SetSpec_RelativeModeNotCached(t *testing.T) {
	c := newTestCatalog()
	require.True(t, c.Replace(testLoad(1, record("a", 2024, 4.0, ""))))
	before := c.cache.len()

	spec := filter.Spec{
		Magnitude: filter.MagnitudeRange{Max: filter.MagnitudeCeiling},
		Date:      filter.DateFilter{Mode: filter.ModeRelative, Window: filter.WindowYear},
		Country:   filter.AllValues,
		Area:      filter.AllValues,
	}

	snap, err := c.SetSpec(spec)
	require.NoError(t, err)

	assert.Nil(t, snap.Stats.AvgPerYear)
	assert.Equal(t, before, c.cache.len())
}

func TestCatalog_SetSpec_InvalidModeRejected(t *testing.T) {
	c := newTestCatalog()
	require.True(t, c.Replace(testLoad(1, record("a", 2010, 4.0, ""))))
	valid := c.Spec()

	bad := valid
	bad.Date.Mode = "sometimes"

	_, err := c.SetSpec(bad)

	require.Error(t, err)
	assert.Equal(t, valid, c.Spec(), "failed SetSpec must not replace the active spec")
}
