package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestsInFlight  prometheus.Gauge
	HTTPResponseSizeBytes *prometheus.HistogramVec

	// Engine Metrics
	AnalysesTotal          *prometheus.CounterVec
	AnalysisDuration       *prometheus.HistogramVec
	AnalysisConsequences   *prometheus.HistogramVec
	AnalysesTruncatedTotal *prometheus.CounterVec
	ButterflyEffectsTotal  *prometheus.CounterVec
	SimulationsTotal       *prometheus.CounterVec
	SimulationDuration     *prometheus.HistogramVec
	SimulationUniverses    *prometheus.HistogramVec

	// Graph Metrics
	GraphNodesTotal   prometheus.Gauge
	GraphEdgesTotal   prometheus.Gauge
	GraphLoadsTotal   *prometheus.CounterVec
	GraphLoadDuration *prometheus.HistogramVec
	GraphOrigin       *prometheus.GaugeVec

	// Store Metrics
	StoreOperationsTotal     *prometheus.CounterVec
	StoreOperationDuration   *prometheus.HistogramVec
	JournalRecordsTotal      *prometheus.CounterVec
	JournalBytesWrittenTotal prometheus.Counter
	ArchiveUploadsTotal      *prometheus.CounterVec

	// Stream Metrics
	StreamEventsTotal        *prometheus.CounterVec
	StreamEventsDroppedTotal *prometheus.CounterVec
	StreamSubscribers        prometheus.Gauge

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initServerMetrics()
	r.initEngineMetrics()
	r.initGraphMetrics()
	r.initStoreMetrics()
	r.initStreamMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
