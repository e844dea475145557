package store

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// writesTotal counts committed layout writes across all backends.
	writesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "planviz_layout_writes_total",
			Help: "Total number of layout records written",
		},
	)
)

func init() {
	// Register metrics with the default registry
	prometheus.MustRegister(writesTotal)
}
