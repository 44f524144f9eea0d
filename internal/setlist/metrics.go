package setlist

import (
	"github.com/prometheus/client_golang/prometheus"
)

var generations = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "setlist_generations_total",
		Help: "Total generator runs (create + regenerate)",
	},
)

func RegisterMetrics() {
	prometheus.MustRegister(generations)
}
