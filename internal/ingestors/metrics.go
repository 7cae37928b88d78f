package ingestors

import (
	"event-analytics/internal/shared/metrics"
)

var (
	metricBatchesIngestedTotal = metrics.NewCounter(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubCapture,
			Name:      "batches_ingested_total",
		},
	)

	metricBatchItemsTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubCapture,
			Name:      "batch_items_total",
		},
		[]string{"status"},
	)
)
