// Package observability provides metrics and tracing.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command failures by operation.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "confessio_redis_errors_total",
		Help: "Total number of Redis errors by operation",
	}, []string{"operation"})

	// FeedQueries counts ranking-engine reads by feed and cache outcome.
	FeedQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "confessio_feed_queries_total",
		Help: "Total number of feed queries by sort and source",
	}, []string{"sort", "source"})

	// VotesRecorded counts accepted vote writes by kind (cast/clear).
	VotesRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "confessio_votes_recorded_total",
		Help: "Total number of vote ledger writes by kind",
	}, []string{"kind"})

	// DatabaseQueryLatency observes repository query durations.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "confessio_db_query_duration_seconds",
		Help:    "Database query latency distribution by operation",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
)
