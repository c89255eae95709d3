// Package ingest drives the fetch-normalize-replace refresh cycle that keeps
// the in-memory catalog current with the upstream feed.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/seismoview/quake-catalog/internal/catalog"
	"github.com/seismoview/quake-catalog/internal/domain"
	"github.com/seismoview/quake-catalog/internal/observability"
)

// Source produces a fully materialized raw dataset.
type Source interface {
	Fetch(ctx context.Context) (domain.Dataset, error)
}

// Sink accepts a completed load. Replace reports whether the load was applied
// or discarded as stale.
type Sink interface {
	Replace(load catalog.Load) bool
}

// Refresher periodically rebuilds the catalog from the source. Refreshes are
// serialized: overlapping triggers collapse into the single pending one.
type Refresher struct {
	source   Source
	sink     Sink
	logger   *slog.Logger
	metrics  *observability.Metrics
	interval time.Duration
	seq      atomic.Uint64
	trigger  chan struct{}
}

// New creates a Refresher. An interval of zero disables the periodic timer,
// leaving only explicit triggers.
func New(source Source, sink Sink, logger *slog.Logger, metrics *observability.Metrics, interval time.Duration) *Refresher {
	return &Refresher{
		source:   source,
		sink:     sink,
		logger:   logger,
		metrics:  metrics,
		interval: interval,
		trigger:  make(chan struct{}, 1),
	}
}

// TriggerRefresh requests an out-of-band refresh. Safe to call from any
// goroutine; a trigger arriving while one is already pending is a no-op.
func (r *Refresher) TriggerRefresh() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

// RunOnce performs a single fetch-normalize-replace cycle.
func (r *Refresher) RunOnce(ctx context.Context) error {
	requestID := uuid.NewString()
	seq := r.seq.Add(1)
	start := time.Now()

	dataset, err := r.source.Fetch(ctx)
	if err != nil {
		r.metrics.DatasetLoadErrors.Inc()
		return fmt.Errorf("fetch dataset: %w", err)
	}

	result := dataset.Normalize()
	applied := r.sink.Replace(catalog.Load{
		RequestID: requestID,
		Seq:       seq,
		Records:   result.Records,
		Dropped:   result.Dropped,
	})

	elapsed := time.Since(start)
	r.metrics.DatasetLoads.Inc()
	r.metrics.LoadDuration.Observe(elapsed.Seconds())

	if !applied {
		r.logger.Warn("refresh superseded, load discarded",
			"request_id", requestID, "seq", seq)
		return nil
	}

	r.logger.Info("dataset refreshed",
		"request_id", requestID,
		"seq", seq,
		"records", len(result.Records),
		"dropped", result.Dropped,
		"duration", elapsed,
	)
	return nil
}

// Run executes the refresh loop until the context is cancelled. The loop
// performs one refresh immediately, then waits for the periodic timer or an
// explicit trigger. Failures retry with exponential backoff.
func (r *Refresher) Run(ctx context.Context) error {
	r.logger.Info("refresher started", "interval", r.interval)
	r.metrics.RefreshRunning.Set(1)
	defer r.metrics.RefreshRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		if err := r.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				r.logger.Info("refresher stopping", "reason", ctx.Err())
				return nil
			}
			r.logger.Error("refresh failed", "error", err)
			if !sleepWithContext(ctx, backoff) {
				return nil
			}
			backoff = nextBackoff(backoff, maxBackoff)
			continue
		}
		backoff = 200 * time.Millisecond

		if !r.waitNext(ctx) {
			r.logger.Info("refresher stopping", "reason", ctx.Err())
			return nil
		}
	}
}

// waitNext blocks until the next refresh is due. Returns false on cancellation.
func (r *Refresher) waitNext(ctx context.Context) bool {
	if r.interval <= 0 {
		select {
		case <-ctx.Done():
			return false
		case <-r.trigger:
			return true
		}
	}

	timer := time.NewTimer(r.interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-r.trigger:
		return true
	case <-timer.C:
		return true
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
