package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initStreamMetrics() {
	r.StreamEventsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ripplegraph_stream_events_total",
			Help: "Total number of events handed to the stream publisher",
		},
		[]string{"topic"},
	)

	r.StreamEventsDroppedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ripplegraph_stream_events_dropped_total",
			Help: "Events dropped because the stream buffer was full",
		},
		[]string{"topic"},
	)

	r.StreamSubscribers = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "ripplegraph_stream_subscribers",
			Help: "Current number of event bus subscriptions",
		},
	)
}
