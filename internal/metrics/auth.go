package metrics

import "github.com/prometheus/client_golang/prometheus"

// AuthAttemptsTotal counts authentication attempts by action and outcome.
var AuthAttemptsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "caskbook",
		Name:      "auth_attempts_total",
		Help:      "Authentication attempts",
	},
	[]string{"action", "result"}, // action: register/login/refresh; result: ok/fail
)

var authMetricsRegistered bool

// RegisterAuthMetrics registers authentication metrics. Must be called once from main.
func RegisterAuthMetrics() {
	if authMetricsRegistered {
		return
	}
	prometheus.MustRegister(AuthAttemptsTotal)
	authMetricsRegistered = true
}
