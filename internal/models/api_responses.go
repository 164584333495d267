// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package models

import "time"

// APIResponse is the standardized envelope for all API endpoints.
//
// Status is "success" or "error". Data carries the payload and is null on
// error. Error is set only when Status is "error".
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError represents an error response with structured details.
//
// Code is machine-readable (e.g. "FEED_NOT_FOUND", "VALIDATION_ERROR"),
// Message is human-readable, Details carries optional field-level context.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus reports service health for monitoring probes.
type HealthStatus struct {
	Status           string    `json:"status"` // healthy, degraded
	Version          string    `json:"version"`
	StoreReachable   bool      `json:"store_reachable"`
	EventsRunning    bool      `json:"events_running"`
	UptimeSeconds    int64     `json:"uptime_seconds"`
	StartedAt        time.Time `json:"started_at"`
	ActiveSessionKey int       `json:"active_session_keys"`
}
