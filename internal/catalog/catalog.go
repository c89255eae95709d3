// Package catalog owns the canonical earthquake record set, its indices, and
// the active filter selection. It replaces the original viewer's ambient
// AppState: every consumer goes through an explicit Catalog value, and the
// record set plus indices are copy-on-replace so readers never observe a torn
// state.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/seismoview/quake-catalog/internal/domain"
	"github.com/seismoview/quake-catalog/internal/filter"
	"github.com/seismoview/quake-catalog/internal/index"
	"github.com/seismoview/quake-catalog/internal/observability"
	"github.com/seismoview/quake-catalog/internal/stats"
)

// Load is a fully-formed dataset handoff: a complete normalized record set,
// never a partial or streaming batch. Seq orders competing loads; RequestID
// identifies the fetch for logs and the cache key.
type Load struct {
	RequestID string
	Seq       uint64
	Records   []domain.Record
	Dropped   int
}

// Snapshot is the result of applying one filter spec against one dataset
// version: the filtered subset, the cascading options for every other
// control, and the summary statistics. Treat it as read-only; cache hits
// share the backing slices.
type Snapshot struct {
	Version string         `json:"version"`
	Spec    filter.Spec    `json:"spec"`
	Records []domain.Record `json:"records"`
	Options filter.Options `json:"options"`
	Stats   stats.Summary  `json:"stats"`
}

// Catalog holds the canonical records and serves synchronized filter results.
type Catalog struct {
	logger  *slog.Logger
	metrics *observability.Metrics
	cache   *resultCache

	mu         sync.RWMutex
	records    []domain.Record
	idx        *index.Set
	version    string
	appliedSeq uint64
	loaded     bool
	spec       filter.Spec
	current    Snapshot
}

// New creates an empty Catalog. cacheSize bounds the filter snapshot cache.
func New(logger *slog.Logger, metrics *observability.Metrics, cacheSize int) *Catalog {
	if cacheSize <= 0 {
		cacheSize = 64
	}
	return &Catalog{
		logger:  logger,
		metrics: metrics,
		cache:   newResultCache(cacheSize),
	}
}

// Replace swaps in a new dataset wholesale: records and indices are rebuilt
// together and the snapshot cache is invalidated. A load whose Seq is not
// newer than the last applied one is discarded (last-writer-wins), never
// merged. Returns false for a discarded load.
func (c *Catalog) Replace(load Load) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded && load.Seq <= c.appliedSeq {
		c.logger.Warn("discarding stale dataset load",
			"request_id", load.RequestID,
			"seq", load.Seq,
			"applied_seq", c.appliedSeq,
		)
		c.metrics.StaleLoads.Inc()
		return false
	}

	c.records = load.Records
	c.idx = index.Build(load.Records)
	c.version = load.RequestID
	c.appliedSeq = load.Seq
	c.loaded = true
	c.cache.clear()

	if c.spec == (filter.Spec{}) {
		c.spec = filter.Unconstrained(datasetYears(load.Records))
	}

	c.metrics.DatasetLoads.Inc()
	c.metrics.DatasetRecords.Set(float64(len(load.Records)))
	c.metrics.RowsDropped.Add(float64(load.Dropped))

	snap, err := c.computeLocked(c.spec)
	if err != nil {
		// The retained spec was valid when set; this cannot happen short of
		// a programming error, so surface it hard in logs.
		c.logger.Error("recompute after dataset replace failed", "error", err)
		return true
	}
	c.current = snap

	c.logger.Info("dataset replaced",
		"request_id", load.RequestID,
		"records", len(load.Records),
		"dropped", load.Dropped,
	)
	return true
}

// SetSpec is the single entry point for filter changes: it clones the spec
// (pass-by-value), synchronously computes the new filtered subset, cascading
// options, and statistics, stores them as current, and returns the snapshot.
// Debouncing rapid UI changes is the caller's concern.
func (c *Catalog) SetSpec(spec filter.Spec) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap, err := c.computeLocked(spec)
	if err != nil {
		return Snapshot{}, err
	}
	c.spec = spec
	c.current = snap
	return snap, nil
}

// Query computes a snapshot for the given spec without changing the active
// selection. Read-only API requests go through here so they share the
// snapshot cache without fighting over the current spec.
func (c *Catalog) Query(spec filter.Spec) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return Snapshot{}, errors.New("no dataset loaded yet")
	}
	return c.computeLocked(spec)
}

// Snapshot returns the current filter result. ok is false before the first
// dataset load.
func (c *Catalog) Snapshot() (snap Snapshot, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current, c.loaded
}

// DefaultSpec returns the unconstrained spec over the loaded dataset's year
// span. Stateless API requests use it as the base their parameters narrow.
func (c *Catalog) DefaultSpec() filter.Spec {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return filter.Unconstrained(datasetYears(c.records))
}

// Spec returns the active filter selection.
func (c *Catalog) Spec() filter.Spec {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.spec
}

// Size returns the canonical record count.
func (c *Catalog) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// CheckReadiness reports nil once a dataset has been loaded.
func (c *Catalog) CheckReadiness(_ context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded {
		return errors.New("no dataset loaded yet")
	}
	return nil
}

// computeLocked runs the engine and aggregators under the held lock.
// Range-mode snapshots are cached per dataset version; relative-mode results
// depend on the wall clock and are never cached.
func (c *Catalog) computeLocked(spec filter.Spec) (Snapshot, error) {
	cacheable := spec.Date.Mode == filter.ModeRange
	key := c.version + "|" + specKey(spec)

	if cacheable {
		if snap, ok := c.cache.get(key); ok {
			c.metrics.FilterCache.WithLabelValues("hit").Inc()
			return snap, nil
		}
		c.metrics.FilterCache.WithLabelValues("miss").Inc()
	}

	start := time.Now()

	filtered, err := filter.ApplyIndexed(c.records, c.idx, spec)
	if err != nil {
		return Snapshot{}, err
	}
	opts, err := filter.ComputeAvailableOptions(c.records, spec)
	if err != nil {
		return Snapshot{}, err
	}

	var years *filter.YearRange
	if spec.Date.Mode == filter.ModeRange {
		y := spec.Date.Years
		if y.Min > y.Max {
			y.Min, y.Max = y.Max, y.Min
		}
		years = &y
	}

	snap := Snapshot{
		Version: c.version,
		Spec:    spec,
		Records: filtered,
		Options: opts,
		Stats:   stats.Compute(filtered, years),
	}

	c.metrics.FilterRequests.Inc()
	c.metrics.FilterDuration.Observe(time.Since(start).Seconds())

	if cacheable {
		c.cache.put(key, snap)
	}
	return snap, nil
}

// specKey fingerprints a spec for the snapshot cache.
func specKey(spec filter.Spec) string {
	return fmt.Sprintf("%g:%g|%s:%s:%d-%d|%s|%s",
		spec.Magnitude.Min, spec.Magnitude.Max,
		spec.Date.Mode, spec.Date.Window,
		spec.Date.Years.Min, spec.Date.Years.Max,
		spec.Country, spec.Area,
	)
}

// datasetYears finds the year span of a record set, falling back to a
// 1900-to-now default for an empty dataset so the unconstrained spec stays
// usable.
func datasetYears(records []domain.Record) filter.YearRange {
	if len(records) == 0 {
		return filter.YearRange{Min: 1900, Max: domain.Clock().Now().Year()}
	}
	years := filter.YearRange{Min: records[0].Year, Max: records[0].Year}
	for _, r := range records[1:] {
		if r.Year < years.Min {
			years.Min = r.Year
		}
		if r.Year > years.Max {
			years.Max = r.Year
		}
	}
	return years
}
