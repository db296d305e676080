package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "churn_analyses_total",
			Help: "Analysis runs by input source and outcome",
		},
		[]string{"source", "outcome"}, // csv|mysql|clickhouse|upload , ok|error
	)

	IngestRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "churn_ingest_rows_total",
			Help: "Input rows by what happened to them before aggregation",
		},
		[]string{"status"}, // read|missing_id|invalid_created|invalid_canceled|duplicate
	)

	AnalysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "churn_analysis_duration_seconds",
			Help:    "Time spent aggregating one export",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	CanceledPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "churn_canceled_published_total",
			Help: "Canceled customers published to Kafka",
		},
		[]string{"outcome"},
	)
)

var registerOnce sync.Once

// MustRegister registers the collectors; calls after the first are no-ops.
func MustRegister(r prometheus.Registerer) {
	registerOnce.Do(func() {
		r.MustRegister(
			AnalysesTotal,
			IngestRowsTotal,
			AnalysisDuration,
			CanceledPublishedTotal,
		)
	})
}
