package metrics

import (
	"time"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordResponseSize records the size of an HTTP response body
func (r *Registry) RecordResponseSize(method, path string, sizeBytes int) {
	r.HTTPResponseSizeBytes.WithLabelValues(method, path).Observe(float64(sizeBytes))
}

// IncHTTPRequestsInFlight increments the in-flight request gauge
func (r *Registry) IncHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Inc()
}

// DecHTTPRequestsInFlight decrements the in-flight request gauge
func (r *Registry) DecHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Dec()
}

// RecordAnalysis records a completed cascade analysis
func (r *Registry) RecordAnalysis(mode, recommendation string, duration time.Duration, consequenceCount int, butterfly bool) {
	r.AnalysesTotal.WithLabelValues(mode, recommendation).Inc()
	r.AnalysisDuration.WithLabelValues(mode).Observe(duration.Seconds())
	r.AnalysisConsequences.WithLabelValues(mode).Observe(float64(consequenceCount))

	if butterfly {
		r.ButterflyEffectsTotal.WithLabelValues(mode).Inc()
	}
}

// RecordTruncation records a cascade cut short by a propagation safety limit
func (r *Registry) RecordTruncation(reason string) {
	r.AnalysesTruncatedTotal.WithLabelValues(reason).Inc()
}

// RecordSimulation records a completed multiverse simulation
func (r *Registry) RecordSimulation(mode string, duration time.Duration, universeCount int) {
	r.SimulationsTotal.WithLabelValues(mode).Inc()
	r.SimulationDuration.WithLabelValues(mode).Observe(duration.Seconds())
	r.SimulationUniverses.WithLabelValues(mode).Observe(float64(universeCount))
}

// RecordStoreOperation records a report store operation
func (r *Registry) RecordStoreOperation(operation, status string, duration time.Duration) {
	r.StoreOperationsTotal.WithLabelValues(operation, status).Inc()
	r.StoreOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordJournalWrite records a journal append with its compressed size
func (r *Registry) RecordJournalWrite(kind string, compressedBytes int) {
	r.JournalRecordsTotal.WithLabelValues(kind).Inc()
	r.JournalBytesWrittenTotal.Add(float64(compressedBytes))
}

// RecordArchiveUpload records a report archive upload attempt
func (r *Registry) RecordArchiveUpload(kind, status string) {
	r.ArchiveUploadsTotal.WithLabelValues(kind, status).Inc()
}

// RecordStreamEvent records an event handed to the stream publisher
func (r *Registry) RecordStreamEvent(topic string) {
	r.StreamEventsTotal.WithLabelValues(topic).Inc()
}

// RecordStreamDrop records an event dropped by a full stream buffer
func (r *Registry) RecordStreamDrop(topic string) {
	r.StreamEventsDroppedTotal.WithLabelValues(topic).Inc()
}

// RecordGraphLoad records a graph load attempt
func (r *Registry) RecordGraphLoad(source, status string, duration time.Duration) {
	r.GraphLoadsTotal.WithLabelValues(source, status).Inc()
	r.GraphLoadDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// UpdateGraphMetrics updates the graph size gauges
func (r *Registry) UpdateGraphMetrics(nodes, edges int) {
	r.GraphNodesTotal.Set(float64(nodes))
	r.GraphEdgesTotal.Set(float64(edges))
}

// SetGraphOrigin sets the origin of the currently loaded graph
func (r *Registry) SetGraphOrigin(origin string) {
	// Reset all origins
	r.GraphOrigin.WithLabelValues("sample").Set(0)
	r.GraphOrigin.WithLabelValues("file").Set(0)

	// Set current origin
	r.GraphOrigin.WithLabelValues(origin).Set(1)
}
