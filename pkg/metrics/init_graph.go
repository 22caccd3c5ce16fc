package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "ripplegraph_graph_nodes_total",
			Help: "Number of nodes in the loaded dependency graph",
		},
	)

	r.GraphEdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "ripplegraph_graph_edges_total",
			Help: "Number of edges in the loaded dependency graph",
		},
	)

	r.GraphLoadsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ripplegraph_graph_loads_total",
			Help: "Total number of graph load attempts",
		},
		[]string{"source", "status"},
	)

	r.GraphLoadDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ripplegraph_graph_load_duration_seconds",
			Help:    "Graph load latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	r.GraphOrigin = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ripplegraph_graph_origin",
			Help: "Origin of the currently loaded graph (1 for current, 0 otherwise)",
		},
		[]string{"origin"},
	)
}
