package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(webhooksTotal)
}

var webhooksTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "webhooks_total",
		Help: "Webhook deliveries by topic and outcome (ok/rejected/failed).",
	},
	[]string{"topic", "outcome"},
)

func IncWebhook(topic, outcome string) {
	webhooksTotal.WithLabelValues(norm(topic), norm(outcome)).Inc()
}
