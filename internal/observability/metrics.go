package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// index engine and its provider cache.
type Metrics struct {
	// Provider cache metrics.
	CacheLookups   *prometheus.CounterVec // labels: result={hit,miss}
	CacheEvictions prometheus.Counter
	CacheEntries   prometheus.Gauge

	// Backend fetch metrics.
	BackendFetches      *prometheus.CounterVec // labels: variable, outcome={success,error}
	BackendFetchSeconds prometheus.Histogram

	// Engine metrics.
	IndexComputations *prometheus.CounterVec // labels: index, outcome={success,error}
	ComputeSeconds    prometheus.Histogram

	// Export metrics.
	ExportTasks *prometheus.CounterVec // labels: outcome={started,completed,failed}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.CacheLookups,
		m.CacheEvictions,
		m.CacheEntries,
		m.BackendFetches,
		m.BackendFetchSeconds,
		m.IndexComputations,
		m.ComputeSeconds,
		m.ExportTasks,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cmip6",
			Name:      "series_cache_lookups_total",
			Help:      "Series cache lookups by result.",
		}, []string{"result"}),
		CacheEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cmip6",
			Name:      "series_cache_evictions_total",
			Help:      "Entries evicted from the series cache.",
		}),
		CacheEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cmip6",
			Name:      "series_cache_entries",
			Help:      "Current number of cached series.",
		}),
		BackendFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cmip6",
			Name:      "backend_fetches_total",
			Help:      "Backend grid fetches by variable and outcome.",
		}, []string{"variable", "outcome"}),
		BackendFetchSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cmip6",
			Name:      "backend_fetch_duration_seconds",
			Help:      "Duration of backend daily-grid fetches.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		IndexComputations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cmip6",
			Name:      "index_computations_total",
			Help:      "Index calculations by index key and outcome.",
		}, []string{"index", "outcome"}),
		ComputeSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cmip6",
			Name:      "index_compute_duration_seconds",
			Help:      "Duration of a single index reduction.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		ExportTasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cmip6",
			Name:      "export_tasks_total",
			Help:      "Export tasks by outcome.",
		}, []string{"outcome"}),
	}
}
