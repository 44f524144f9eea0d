package importer

import (
	"github.com/prometheus/client_golang/prometheus"
)

var imports = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "setlist_song_imports_total",
		Help: "Songs processed by the importers",
	},
	[]string{"status"},
)

func RegisterMetrics() {
	prometheus.MustRegister(imports)
}
