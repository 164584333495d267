// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

/*
Package metrics provides Prometheus metrics collection and export for observability.

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

HTTP Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: Active requests (gauge)

Feed Metrics:
  - feed_compositions_total: Feed orderings computed (counter)
    Labels: mode (shuffled, lock_all)
  - feed_composition_duration_seconds: Composition latency (histogram)
  - feed_not_found_total: Lookups for unknown public URLs (counter)
  - feed_inactive_rejections_total: Requests rejected because the
    experiment is inactive (counter)

Session Metrics:
  - sessions_started_total: Fresh session starts (counter)
    Labels: mode (persisted, ephemeral)
  - sessions_completed_total: Sessions finished by the participant (counter)
  - sessions_expired_total: Sessions ended by the countdown or sweep (counter)
  - sessions_active: Live server-side timers (gauge)
  - session_state_corruptions_total: Unreadable timer state discarded (counter)

Store Metrics:
  - store_operation_duration_seconds: Badger operation latency (histogram)
    Labels: operation
  - store_operation_errors_total: Failed store operations (counter)
    Labels: operation

Redirect Metrics:
  - redirect_urls_built_total: End-screen URLs composed (counter)
  - redirect_build_errors_total: Redirect destinations rejected (counter)

Event Metrics:
  - events_published_total: Lifecycle events published (counter)
    Labels: event_type
  - interactions_logged_total: Participant interactions recorded (counter)
    Labels: interaction_type
*/
package metrics
