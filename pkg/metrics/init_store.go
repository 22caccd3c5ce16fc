package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initStoreMetrics() {
	r.StoreOperationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ripplegraph_store_operations_total",
			Help: "Total number of report store operations",
		},
		[]string{"operation", "status"},
	)

	r.StoreOperationDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ripplegraph_store_operation_duration_seconds",
			Help:    "Report store operation latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	r.JournalRecordsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ripplegraph_journal_records_total",
			Help: "Total number of records appended to the report journal",
		},
		[]string{"kind"},
	)

	r.JournalBytesWrittenTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "ripplegraph_journal_bytes_written_total",
			Help: "Total payload bytes handed to the report journal",
		},
	)

	r.ArchiveUploadsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ripplegraph_archive_uploads_total",
			Help: "Total number of report archive uploads",
		},
		[]string{"kind", "status"},
	)
}
