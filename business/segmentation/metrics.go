package segmentation

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeCacheHit     = "cache_hit"
	outcomeRecalculated = "recalculated"
	outcomeForced       = "forced"
)

var (
	SegmentRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "segment_requests_total",
			Help: "Count of segment lookups by outcome (cache_hit, recalculated, forced).",
		},
		[]string{"outcome"},
	)

	SegmentAssignmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "segment_assignments_total",
			Help: "Count of freshly computed segments by segment type.",
		},
		[]string{"segment_type"},
	)

	ItemLookupFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "behavior_item_lookup_failures_total",
			Help: "Catalog lookups that were skipped while scoring, by item type.",
		},
		[]string{"item_type"},
	)

	BehaviorScoreDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "behavior_score_duration_seconds",
		Help:    "Time spent computing a user's behavior scores.",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(
		SegmentRequestsTotal,
		SegmentAssignmentsTotal,
		ItemLookupFailuresTotal,
		BehaviorScoreDuration,
	)
}
