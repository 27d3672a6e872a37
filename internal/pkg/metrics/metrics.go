package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ExportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "xformreports",
		Name:      "exports_total",
		Help:      "Rendered table exports by file extension.",
	}, []string{"format"})

	DistrictMatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "xformreports",
		Name:      "district_matches_total",
		Help:      "District lookups by outcome.",
	}, []string{"result"})

	ReportQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "xformreports",
		Name:      "report_queries_total",
		Help:      "Aggregation queries by kind and outcome.",
	}, []string{"kind", "result"})

	ReportQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "xformreports",
		Name:      "report_query_duration_seconds",
		Help:      "Aggregation query latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind"})
)
