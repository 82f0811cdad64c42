// Package observability provides Prometheus collectors and OpenTelemetry tracing helpers.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_redis_errors_total",
		Help: "Total number of Redis errors by operation",
	}, []string{"operation"})

	// DatabaseQueryLatency records repository call latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blog_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// LoginAttempts counts login attempts by outcome (success, unknown_email, bad_password).
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_login_attempts_total",
		Help: "Total number of login attempts by result",
	}, []string{"result"})

	// Registrations counts accounts created, split by whether an admin created them.
	Registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_registrations_total",
		Help: "Total number of accounts registered",
	}, []string{"by_admin"})

	// ContactMessages counts contact form deliveries by outcome (sent, failed).
	ContactMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_contact_messages_total",
		Help: "Total number of contact form messages by result",
	}, []string{"result"})

	// ContentEvents counts post and comment mutations.
	ContentEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_content_events_total",
		Help: "Total number of post and comment mutations",
	}, []string{"kind", "action"})
)

// ObserveQuery records the latency of a repository call.
func ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		ObserveQuery(operation, table, start)
	}
}

// RecordContentEvent bumps ContentEvents for kind ("post", "comment") and action ("create", "update", "delete").
func RecordContentEvent(kind, action string) {
	ContentEvents.WithLabelValues(kind, action).Inc()
}
