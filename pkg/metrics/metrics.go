// Package metrics provides Prometheus metrics for the Fern service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MatchRunsTotal tracks matching runs by outcome
	MatchRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "matching",
			Name:      "runs_total",
			Help:      "Total number of matching runs by status",
		},
		[]string{"tenant_id", "status"},
	)

	// MatchRunDuration tracks end-to-end matching run duration
	MatchRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fern",
			Subsystem: "matching",
			Name:      "run_duration_seconds",
			Help:      "Duration of matching runs in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"tenant_id"},
	)

	// MatchesTotal tracks produced matches by tier
	MatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "matching",
			Name:      "matches_total",
			Help:      "Total number of matches produced by match type",
		},
		[]string{"tenant_id", "match_type"},
	)

	// UnmatchedRecordsTotal tracks leftovers per run
	UnmatchedRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "matching",
			Name:      "unmatched_records_total",
			Help:      "Total number of records left unmatched, by side",
		},
		[]string{"tenant_id", "side"},
	)

	// RecordsIngestedTotal tracks records ingested into datasets
	RecordsIngestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "ingestion",
			Name:      "records_total",
			Help:      "Total number of records ingested by source",
		},
		[]string{"tenant_id", "source", "status"},
	)

	// ConsumerMessagesTotal tracks Kafka messages consumed
	ConsumerMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "consumer",
			Name:      "messages_total",
			Help:      "Total number of Kafka messages consumed by status",
		},
		[]string{"topic", "status"},
	)

	// CRMFetchDuration tracks upstream CRM page fetch duration
	CRMFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fern",
			Subsystem: "crm",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of upstream CRM fetches in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		},
		[]string{"table"},
	)

	// CacheOperationsTotal tracks cache hits and misses
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "cache",
			Name:      "operations_total",
			Help:      "Total number of cache lookups by result",
		},
		[]string{"result"},
	)
)

// RecordMatchRun records a completed (or failed) matching run.
func RecordMatchRun(tenantID, status string, duration time.Duration) {
	MatchRunsTotal.WithLabelValues(tenantID, status).Inc()
	if status == "success" {
		MatchRunDuration.WithLabelValues(tenantID).Observe(duration.Seconds())
	}
}

// RecordMatches records per-tier match counts for a run.
func RecordMatches(tenantID string, byType map[string]int) {
	for matchType, count := range byType {
		MatchesTotal.WithLabelValues(tenantID, matchType).Add(float64(count))
	}
}

// RecordUnmatched records leftover counts for a run.
func RecordUnmatched(tenantID string, leads, customers int) {
	UnmatchedRecordsTotal.WithLabelValues(tenantID, "lead").Add(float64(leads))
	UnmatchedRecordsTotal.WithLabelValues(tenantID, "customer").Add(float64(customers))
}

// RecordIngestion records an ingested record batch.
func RecordIngestion(tenantID, source, status string, count int) {
	RecordsIngestedTotal.WithLabelValues(tenantID, source, status).Add(float64(count))
}

// RecordConsumerMessage records one consumed Kafka message.
func RecordConsumerMessage(topic, status string) {
	ConsumerMessagesTotal.WithLabelValues(topic, status).Inc()
}

// RecordCRMFetch records one upstream fetch.
func RecordCRMFetch(table string, duration time.Duration) {
	CRMFetchDuration.WithLabelValues(table).Observe(duration.Seconds())
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheOperationsTotal.WithLabelValues(result).Inc()
}
