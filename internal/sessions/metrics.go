package sessions

import (
	"event-analytics/internal/shared/metrics"
)

const (
	assignOpened   = "opened"
	assignExtended = "extended"
	assignRotated  = "rotated"
)

var (
	metricAssignmentsTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubSession,
			Name:      "assignments_total",
		},
		[]string{"decision"},
	)

	metricConversionsTotal = metrics.NewCounter(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubSession,
			Name:      "conversions_total",
		},
	)
)
