// Package metrics defines Prometheus metrics for the ingestion pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ingestCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_cycles_total",
			Help: "Total number of ingestion cycles, by outcome",
		},
		[]string{"status"},
	)

	ingestArticlesInserted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_articles_inserted_total",
			Help: "Total number of new articles inserted by ingestion",
		},
	)

	ingestArticlesModified = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_articles_modified_total",
			Help: "Total number of existing articles updated by ingestion",
		},
	)

	// Buckets cover fast no-op cycles (sub-second) through slow upstream
	// fetches with large batches (up to the 30s client timeout and beyond).
	ingestCycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ingest_cycle_duration_seconds",
			Help:    "Duration of a full fetch-map-upsert ingestion cycle",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)
)

// RecordIngestCycle records the outcome and duration of an ingestion cycle.
// Status is one of "success", "skipped" or "error".
func RecordIngestCycle(status string, duration time.Duration) {
	ingestCyclesTotal.WithLabelValues(status).Inc()
	ingestCycleDuration.Observe(duration.Seconds())
}

// RecordArticlesUpserted records the insert/update split of a bulk upsert.
func RecordArticlesUpserted(inserted, modified int64) {
	ingestArticlesInserted.Add(float64(inserted))
	ingestArticlesModified.Add(float64(modified))
}
