// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides instrumentation for:
// - Store operation performance (Badger)
// - Interaction logging throughput
// - Summary refresh pipeline (claims, computes, contention)
// - Retention cleanup
// - Event queue (NATS JetStream)
// - API endpoint latency and throughput
// - Cache efficiency and WebSocket connections

var (
	// Store Metrics
	StoreOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "badger_op_duration_seconds",
			Help:    "Duration of Badger store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "bucket"},
	)

	StoreOpErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "badger_op_errors_total",
			Help: "Total number of Badger store operation errors",
		},
		[]string{"operation", "bucket"},
	)

	// Interaction Metrics
	InteractionsLogged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interactions_logged_total",
			Help: "Total number of interactions logged",
		},
		[]string{"interaction_type", "media_type"},
	)

	InteractionLogFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "interaction_log_failures_total",
			Help: "Total number of failed interaction log attempts",
		},
	)

	// Summary Refresh Metrics
	SummaryRefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "summary_refresh_duration_seconds",
			Help:    "Duration of summary recomputation in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	SummaryRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summary_refreshes_total",
			Help: "Total number of summary refresh attempts by outcome",
		},
		[]string{"outcome"}, // "computed", "fresh", "claim_held", "failed"
	)

	SummaryRecordsFetched = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "summary_records_fetched",
			Help:    "Number of interaction records read per summary computation",
			Buckets: []float64{10, 50, 100, 250, 500, 1000, 2500, 5000},
		},
	)

	// Retention Metrics
	RetentionRecordsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "retention_records_deleted_total",
			Help: "Total number of interaction records deleted by retention cleanup",
		},
	)

	RetentionRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "retention_run_duration_seconds",
			Help:    "Duration of retention cleanup passes in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
	)

	RetentionErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "retention_errors_total",
			Help: "Total number of retention cleanup errors",
		},
	)

	RetentionLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "retention_last_success_timestamp",
			Help: "Unix timestamp of last successful retention pass",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Event Queue Metrics
	EventsPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of events published to the queue",
		},
	)

	EventsPublishFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "events_publish_failed_total",
			Help: "Total number of failed event publish attempts",
		},
	)

	EventsConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "events_consumed_total",
			Help: "Total number of events consumed from the queue",
		},
	)

	EventsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "events_processed_total",
			Help: "Total number of events successfully processed",
		},
	)

	EventsParseFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "events_parse_failed_total",
			Help: "Total number of events that failed to parse",
		},
	)

	EventProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "event_processing_duration_seconds",
			Help:    "Duration of event processing in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry)",
		},
		[]string{"cache_type"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordStoreOp records a store operation metric
func RecordStoreOp(operation, bucket string, duration time.Duration, err error) {
	StoreOpDuration.WithLabelValues(operation, bucket).Observe(duration.Seconds())
	if err != nil {
		StoreOpErrors.WithLabelValues(operation, bucket).Inc()
	}
}

// RecordInteractionLogged records a successfully logged interaction
func RecordInteractionLogged(interactionType, mediaType string) {
	InteractionsLogged.WithLabelValues(interactionType, mediaType).Inc()
}

// RecordRefreshOutcome records a summary refresh attempt outcome.
// Outcomes: "computed" (recomputation ran), "fresh" (no-op), "claim_held"
// (another refresh in flight), "failed" (compute or write error).
func RecordRefreshOutcome(outcome string) {
	SummaryRefreshes.WithLabelValues(outcome).Inc()
}

// RecordSummaryCompute records a completed summary computation
func RecordSummaryCompute(duration time.Duration, recordsFetched int) {
	SummaryRefreshDuration.Observe(duration.Seconds())
	SummaryRecordsFetched.Observe(float64(recordsFetched))
}

// RecordRetentionRun records a retention cleanup pass
func RecordRetentionRun(duration time.Duration, deleted int, err error) {
	RetentionRunDuration.Observe(duration.Seconds())
	RetentionRecordsDeleted.Add(float64(deleted))
	if err != nil {
		RetentionErrors.Inc()
	} else {
		RetentionLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordEventPublish records an event publish attempt
func RecordEventPublish(err error) {
	if err != nil {
		EventsPublishFailed.Inc()
		return
	}
	EventsPublished.Inc()
}

// RecordEventProcessed records a successfully processed event
func RecordEventProcessed(duration time.Duration) {
	EventsProcessed.Inc()
	EventProcessingDuration.Observe(duration.Seconds())
}

// RecordCircuitBreakerResult records a request passing through a breaker
func RecordCircuitBreakerResult(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// SetCircuitBreakerState sets the breaker state gauge
// (0=closed, 1=half-open, 2=open)
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}
