package stores

import (
	"event-analytics/internal/shared/metrics"
)

const (
	resultAccepted  = "accepted"
	resultDuplicate = "duplicate"
)

var (
	metricEventsWrittenTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubStore,
			Name:      "events_written_total",
		},
		[]string{"result"},
	)

	metricSessionsOpenedTotal = metrics.NewCounter(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubStore,
			Name:      "sessions_opened_total",
		},
	)

	metricSessionsClosedTotal = metrics.NewCounter(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubStore,
			Name:      "sessions_closed_total",
		},
	)
)
