package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// initServerMetrics registers the transport and process metrics. The
// domain metrics live in the other init files.
func (r *Registry) initServerMetrics() {
	auto := promauto.With(r.registry)

	r.HTTPRequestsTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Name: "ripplegraph_http_requests_total",
		Help: "HTTP requests served, by method, path and status",
	}, []string{"method", "path", "status"})

	r.HTTPRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ripplegraph_http_request_duration_seconds",
		Help:    "Wall-clock time spent serving HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	r.HTTPRequestsInFlight = auto.NewGauge(prometheus.GaugeOpts{
		Name: "ripplegraph_http_requests_in_flight",
		Help: "Requests currently being served",
	})

	r.HTTPResponseSizeBytes = auto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ripplegraph_http_response_size_bytes",
		Help:    "Response body sizes",
		Buckets: prometheus.ExponentialBuckets(100, 10, 5),
	}, []string{"method", "path"})

	r.UptimeSeconds = auto.NewGauge(prometheus.GaugeOpts{
		Name: "ripplegraph_uptime_seconds",
		Help: "Seconds since the server process started",
	})

	r.GoRoutines = auto.NewGauge(prometheus.GaugeOpts{
		Name: "ripplegraph_goroutines",
		Help: "Live goroutines",
	})

	r.MemoryAllocBytes = auto.NewGauge(prometheus.GaugeOpts{
		Name: "ripplegraph_memory_alloc_bytes",
		Help: "Heap bytes allocated and still in use",
	})

	r.MemorySysBytes = auto.NewGauge(prometheus.GaugeOpts{
		Name: "ripplegraph_memory_sys_bytes",
		Help: "Total bytes obtained from the OS",
	})
}
