package metrics

import "github.com/prometheus/client_golang/prometheus"

// Similarity and catalog Prometheus metrics.
var (
	RankDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "caskbook",
			Name:      "similarity_rank_duration_seconds",
			Help:      "Time spent ranking the catalog against a flavor profile",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
		[]string{"source"}, // "bottle" / "profile" / "query"
	)

	RankCandidates = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "caskbook",
			Name:      "similarity_rank_candidates",
			Help:      "Catalog entries scanned per ranking",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 8),
		},
	)

	CatalogCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "caskbook",
			Name:      "catalog_cache_total",
			Help:      "Catalog snapshot cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	CatalogWhiskies = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "caskbook",
			Name:      "catalog_whiskies",
			Help:      "Whiskies in the last loaded catalog snapshot",
		},
	)
)

var similarityMetricsRegistered bool

// RegisterSimilarityMetrics registers ranking and catalog metrics. Must be called once from main.
func RegisterSimilarityMetrics() {
	if similarityMetricsRegistered {
		return
	}
	prometheus.MustRegister(RankDuration)
	prometheus.MustRegister(RankCandidates)
	prometheus.MustRegister(CatalogCacheTotal)
	prometheus.MustRegister(CatalogWhiskies)
	similarityMetricsRegistered = true
}
