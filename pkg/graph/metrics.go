package graph

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// buildsTotal counts full graph rebuilds.
	buildsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "planviz_graph_builds_total",
			Help: "Total number of dependency graph rebuilds",
		},
	)

	// nodeCount tracks the node count of the most recent build.
	nodeCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "planviz_graph_nodes",
			Help: "Node count of the most recently built graph",
		},
	)

	// edgeCount tracks the edge count of the most recent build.
	edgeCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "planviz_graph_edges",
			Help: "Edge count of the most recently built graph",
		},
	)
)

func init() {
	// Register metrics with the default registry
	prometheus.MustRegister(buildsTotal)
	prometheus.MustRegister(nodeCount)
	prometheus.MustRegister(edgeCount)
}
