// Package metrics holds the prometheus collectors exported by habitstreak.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

var (
	// AnalyticsDuration tracks how long each analytics computation takes,
	// including repository reads.
	AnalyticsDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "habitstreak_analytics_duration_seconds",
			Help:    "Analytics computation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
		},
		[]string{"operation"},
	)

	// CacheLookups counts analytics cache lookups by result.
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habitstreak_cache_lookups_total",
			Help: "Analytics cache lookups",
		},
		[]string{"operation", "result"},
	)

	// CompletionsRecorded counts completions recorded per habit frequency.
	CompletionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habitstreak_completions_recorded_total",
			Help: "Habit completions recorded",
		},
		[]string{"frequency"},
	)

	// HTTPRequestDuration tracks HTTP request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "habitstreak_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route", "status"},
	)
)

// ObserveAnalytics records the duration of an analytics operation.
func ObserveAnalytics(operation string, d time.Duration) {
	AnalyticsDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// RecordCacheLookup counts a cache lookup.
func RecordCacheLookup(operation, result string) {
	CacheLookups.WithLabelValues(operation, result).Inc()
}

// RecordCompletion counts a recorded completion.
func RecordCompletion(frequency string) {
	CompletionsRecorded.WithLabelValues(frequency).Inc()
}

// RecordHTTPRequest records the latency of a served request.
func RecordHTTPRequest(method, route string, status int, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
