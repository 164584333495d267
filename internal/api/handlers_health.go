// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/feedstage/feedstage/internal/catalog"
	"github.com/feedstage/feedstage/internal/models"
)

// HealthLive handles GET /api/health/live: the process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]string{"status": "alive"})
}

// HealthReady handles GET /api/health/ready: the catalog answers queries.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !h.storeReachable(r) {
		respondError(w, http.StatusServiceUnavailable, ErrCodeInternal, "Catalog store unavailable", nil)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Health handles GET /api/health with a full status report.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	reachable := h.storeReachable(r)

	status := "healthy"
	code := http.StatusOK
	if !reachable {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	respondSuccess(w, code, models.HealthStatus{
		Status:           status,
		Version:          Version,
		StoreReachable:   reachable,
		EventsRunning:    h.notifier != nil,
		UptimeSeconds:    int64(time.Since(h.startedAt).Seconds()),
		StartedAt:        h.startedAt,
		ActiveSessionKey: h.sessions.ActiveCount(),
	})
}

// storeReachable probes the catalog with a throwaway read. ErrNotFound
// still proves the store answered.
func (h *Handler) storeReachable(r *http.Request) bool {
	_, err := h.catalog.GetProject(r.Context(), "health-probe")
	return err == nil || errors.Is(err, catalog.ErrNotFound)
}
