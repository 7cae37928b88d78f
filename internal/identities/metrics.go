package identities

import (
	"event-analytics/internal/shared/metrics"
)

const (
	resolutionAnonymous = "anonymous"
	resolutionInherited = "inherited"
	resolutionExisting  = "existing"
)

var (
	metricResolutionsTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubIdentity,
			Name:      "resolutions_total",
		},
		[]string{"result"},
	)

	metricLinksCreatedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubIdentity,
			Name:      "links_created_total",
		},
		[]string{"link_source"},
	)
)
