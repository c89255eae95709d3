package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// catalog service.
type Metrics struct {
	DatasetLoads      prometheus.Counter
	DatasetLoadErrors prometheus.Counter
	StaleLoads        prometheus.Counter
	DatasetRecords    prometheus.Gauge
	RowsDropped       prometheus.Counter
	LoadDuration      prometheus.Histogram
	RefreshRunning    prometheus.Gauge

	// Query-path metrics.
	FilterRequests prometheus.Counter
	FilterDuration prometheus.Histogram
	FilterCache    *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		DatasetLoads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_catalog",
			Name:      "dataset_loads_total",
			Help:      "Total completed dataset loads.",
		}),
		DatasetLoadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_catalog",
			Name:      "dataset_load_errors_total",
			Help:      "Total failed dataset fetch or parse attempts.",
		}),
		StaleLoads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_catalog",
			Name:      "stale_loads_discarded_total",
			Help:      "Loads discarded because a newer load completed first.",
		}),
		DatasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_catalog",
			Name:      "dataset_records",
			Help:      "Records in the current canonical dataset.",
		}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_catalog",
			Name:      "rows_dropped_total",
			Help:      "Raw rows dropped during normalization (bad coordinates or dates).",
		}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_catalog",
			Name:      "load_duration_seconds",
			Help:      "Duration of a complete fetch-normalize-index-swap cycle.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		RefreshRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_catalog",
			Name:      "refresh_running",
			Help:      "1 when the refresh loop is active, 0 when shut down.",
		}),
		FilterRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_catalog",
			Name:      "filter_requests_total",
			Help:      "Total filter applications including cascading recomputes.",
		}),
		FilterDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_catalog",
			Name:      "filter_duration_seconds",
			Help:      "Duration of one filter application plus options recompute.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		FilterCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_catalog",
			Name:      "filter_cache_total",
			Help:      "Filter snapshot cache lookups by result.",
		}, []string{"result"}),
	}

	prometheus.MustRegister(
		m.DatasetLoads,
		m.DatasetLoadErrors,
		m.StaleLoads,
		m.DatasetRecords,
		m.RowsDropped,
		m.LoadDuration,
		m.RefreshRunning,
		m.FilterRequests,
		m.FilterDuration,
		m.FilterCache,
	)

	return m
}

// NewMetricsForTesting creates Metrics with unregistered collectors to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		DatasetLoads:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_catalog", Name: "dataset_loads_total"}),
		DatasetLoadErrors: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_catalog", Name: "dataset_load_errors_total"}),
		StaleLoads:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_catalog", Name: "stale_loads_discarded_total"}),
		DatasetRecords:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "quake_catalog", Name: "dataset_records"}),
		RowsDropped:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_catalog", Name: "rows_dropped_total"}),
		LoadDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "quake_catalog", Name: "load_duration_seconds"}),
		RefreshRunning:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "quake_catalog", Name: "refresh_running"}),
		FilterRequests:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_catalog", Name: "filter_requests_total"}),
		FilterDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "quake_catalog", Name: "filter_duration_seconds"}),
		FilterCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quake_catalog", Name: "filter_cache_total"}, []string{"result"}),
	}
}
