package enrichers

import (
	"event-analytics/internal/shared/metrics"
)

const (
	geoResolved = "resolved"
	geoFailed   = "failed"
)

var (
	metricGeoLookupsTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubCapture,
			Name:      "geo_lookups_total",
		},
		[]string{"result"},
	)
)
