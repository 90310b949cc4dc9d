package metrics

import "github.com/prometheus/client_golang/prometheus"

// Query Prometheus metrics.
var (
	DatasetRows = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "salesdex",
			Name:      "dataset_rows",
			Help:      "Number of records in the loaded snapshot",
		},
	)

	DatasetLoadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "salesdex",
			Name:      "dataset_load_duration_seconds",
			Help:      "Time spent loading the dataset at startup",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	PageCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salesdex",
			Name:      "page_cache_total",
			Help:      "Result page cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

// RegisterQueryMetrics registers the query metrics with the default registry.
// Called explicitly from the composition root (no init()).
func RegisterQueryMetrics() {
	prometheus.MustRegister(DatasetRows)
	prometheus.MustRegister(DatasetLoadDuration)
	prometheus.MustRegister(PageCacheTotal)
}
