// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ViewsRecorded counts view submissions by outcome (new or duplicate).
	ViewsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_views_recorded_total",
		Help: "Total number of view submissions by outcome",
	}, []string{"outcome"})

	// LikeToggles counts like toggles by direction.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_like_toggles_total",
		Help: "Total number of like toggles by direction",
	}, []string{"direction"})

	// CommentMutations counts comment create, update and delete operations.
	CommentMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_comment_mutations_total",
		Help: "Total number of comment mutations by operation",
	}, []string{"op"})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blog_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// WebSocketConnectionsTotal is the gauge of live interaction subscribers.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "blog_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"reason"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// RecordView counts a view submission.
func RecordView(isNew bool) {
	outcome := "duplicate"
	if isNew {
		outcome = "new"
	}
	ViewsRecorded.WithLabelValues(outcome).Inc()
}

// RecordLikeToggle counts a like toggle in the direction it ended up.
func RecordLikeToggle(liked bool) {
	direction := "unlike"
	if liked {
		direction = "like"
	}
	LikeToggles.WithLabelValues(direction).Inc()
}
