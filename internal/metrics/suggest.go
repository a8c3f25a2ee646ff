package metrics

import "github.com/prometheus/client_golang/prometheus"

// Flavor suggestion Prometheus metrics.
var (
	SuggestRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "caskbook",
			Name:      "suggest_requests_total",
			Help:      "Total number of flavor suggestion provider requests",
		},
		[]string{"provider", "model", "status"},
	)

	SuggestRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "caskbook",
			Name:      "suggest_request_duration_seconds",
			Help:      "Flavor suggestion provider request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider", "model"},
	)

	SuggestTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "caskbook",
			Name:      "suggest_tokens_total",
			Help:      "Total tokens consumed by flavor suggestions",
		},
		[]string{"provider", "model", "type"},
	)

	SuggestErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "caskbook",
			Name:      "suggest_errors_total",
			Help:      "Total flavor suggestion errors",
		},
		[]string{"provider", "model", "error_type"},
	)

	SuggestBudgetTokensRemaining = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "caskbook",
			Name:      "suggest_budget_tokens_remaining",
			Help:      "Remaining suggestion token budget (-1 when unlimited)",
		},
		[]string{"provider", "period"},
	)

	SuggestCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "caskbook",
			Name:      "suggest_cache_total",
			Help:      "Flavor suggestion cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var suggestMetricsRegistered bool

// RegisterSuggestMetrics registers Prometheus suggestion metrics. Must be called once from main.
func RegisterSuggestMetrics() {
	if suggestMetricsRegistered {
		return
	}
	prometheus.MustRegister(SuggestRequestsTotal)
	prometheus.MustRegister(SuggestRequestDuration)
	prometheus.MustRegister(SuggestTokensTotal)
	prometheus.MustRegister(SuggestErrorsTotal)
	prometheus.MustRegister(SuggestBudgetTokensRemaining)
	prometheus.MustRegister(SuggestCacheTotal)
	suggestMetricsRegistered = true
}
