// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
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

	// Feed Composition Metrics
	FeedCompositionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_compositions_total",
			Help: "Total number of feed orderings computed",
		},
		[]string{"mode"}, // "shuffled", "lock_all"
	)

	FeedCompositionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_composition_duration_seconds",
			Help:    "Time spent composing a participant feed",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)

	FeedNotFoundTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_not_found_total",
			Help: "Total number of feed lookups for unknown public URLs",
		},
	)

	FeedInactiveRejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_inactive_rejections_total",
			Help: "Total number of feed requests rejected because the experiment is inactive",
		},
	)

	// Session Metrics
	SessionsStartedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sessions_started_total",
			Help: "Total number of fresh session starts",
		},
		[]string{"mode"}, // "persisted", "ephemeral"
	)

	SessionsCompletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_completed_total",
			Help: "Total number of sessions finished by the participant",
		},
	)

	SessionsExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_expired_total",
			Help: "Total number of sessions ended by the countdown or janitor sweep",
		},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sessions_active",
			Help: "Current number of live server-side session timers",
		},
	)

	SessionStateCorruptionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "session_state_corruptions_total",
			Help: "Total number of unreadable timer state entries discarded",
		},
	)

	// Store Metrics
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Duration of catalog store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	StoreOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operation_errors_total",
			Help: "Total number of failed catalog store operations",
		},
		[]string{"operation"},
	)

	// Redirect Metrics
	RedirectURLsBuiltTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "redirect_urls_built_total",
			Help: "Total number of end-screen URLs composed",
		},
	)

	RedirectBuildErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "redirect_build_errors_total",
			Help: "Total number of redirect destinations rejected as malformed",
		},
	)

	// Event Metrics
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of lifecycle events published",
		},
		[]string{"event_type"},
	)

	InteractionsLoggedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interactions_logged_total",
			Help: "Total number of participant interactions recorded",
		},
		[]string{"interaction_type"},
	)
)

// RecordAPIRequest records an API request with its latency.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordFeedComposition records one computed feed ordering.
func RecordFeedComposition(lockAll bool, duration time.Duration) {
	mode := "shuffled"
	if lockAll {
		mode = "lock_all"
	}
	FeedCompositionsTotal.WithLabelValues(mode).Inc()
	FeedCompositionDuration.Observe(duration.Seconds())
}

// RecordStoreOperation records a catalog store operation with its outcome.
func RecordStoreOperation(operation string, duration time.Duration, err error) {
	StoreOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		StoreOperationErrors.WithLabelValues(operation).Inc()
	}
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
