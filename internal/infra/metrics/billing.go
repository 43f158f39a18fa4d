package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		creditGrantsTotal,
		billingCallLatencyMs,
	)
}

var (
	creditGrantsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_grants_total",
			Help: "Deferred credit grant attempts by outcome (granted/lost_race/gateway_error/locked).",
		},
		[]string{"outcome"},
	)

	billingCallLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "billing_call_latency_ms",
			Help:    "Billing provider call latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
		},
		[]string{"call", "success"},
	)
)

func IncCreditGrant(outcome string) {
	creditGrantsTotal.WithLabelValues(norm(outcome)).Inc()
}

func ObserveBillingCall(call string, ms float64, success bool) {
	s := "false"
	if success {
		s = "true"
	}
	billingCallLatencyMs.WithLabelValues(norm(call), s).Observe(ms)
}
