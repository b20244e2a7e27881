// Package metrics holds the Prometheus instrumentation for the ingestion
// pipeline. Collectors are registered on the default registry at package
// init via promauto; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BatchesProcessed counts processed batches by terminal status.
	BatchesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "talus",
		Subsystem: "ingest",
		Name:      "batches_total",
		Help:      "Processed batches by terminal status.",
	}, []string{"status"})

	// RowsProcessed counts pipeline rows by outcome.
	RowsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "talus",
		Subsystem: "ingest",
		Name:      "rows_total",
		Help:      "Pipeline rows by outcome (ok, warn, err, skipped, review).",
	}, []string{"outcome"})

	// BatchDuration observes end-to-end batch processing time.
	BatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "talus",
		Subsystem: "ingest",
		Name:      "batch_duration_seconds",
		Help:      "End-to-end batch processing duration.",
		Buckets:   prometheus.DefBuckets,
	})

	// StaleBatchesReaped counts batches reverted to pending by the lease
	// reaper.
	StaleBatchesReaped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "talus",
		Subsystem: "ingest",
		Name:      "stale_batches_reaped_total",
		Help:      "Batches with expired leases reverted to pending.",
	})
)
