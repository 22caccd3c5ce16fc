package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initEngineMetrics() {
	r.AnalysesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ripplegraph_analyses_total",
			Help: "Total number of cascade analyses by mode and recommendation",
		},
		[]string{"mode", "recommendation"},
	)

	r.AnalysisDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ripplegraph_analysis_duration_seconds",
			Help:    "Cascade analysis latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	r.AnalysisConsequences = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ripplegraph_analysis_consequences",
			Help:    "Number of consequences produced per analysis",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
		},
		[]string{"mode"},
	)

	r.AnalysesTruncatedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ripplegraph_analyses_truncated_total",
			Help: "Analyses cut short by a propagation safety limit",
		},
		[]string{"reason"},
	)

	r.ButterflyEffectsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ripplegraph_butterfly_effects_total",
			Help: "Analyses that surfaced a high-risk consequence far from the change",
		},
		[]string{"mode"},
	)

	r.SimulationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ripplegraph_simulations_total",
			Help: "Total number of multiverse simulations by mode",
		},
		[]string{"mode"},
	)

	r.SimulationDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ripplegraph_simulation_duration_seconds",
			Help:    "Multiverse simulation latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	r.SimulationUniverses = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ripplegraph_simulation_universes",
			Help:    "Number of universes explored per simulation",
			Buckets: []float64{1, 2, 3, 4, 5, 6, 8},
		},
		[]string{"mode"},
	)
}
