package normalizers

import (
	"event-analytics/internal/shared/metrics"
)

const (
	outcomeAccepted = "accepted"
	outcomeRejected = "rejected"
)

var (
	metricItemsNormalizedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubCapture,
			Name:      "items_normalized_total",
		},
		[]string{"outcome"},
	)
)
