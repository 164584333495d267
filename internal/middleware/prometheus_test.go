// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/feedstage/feedstage/internal/metrics"
)

func TestPrometheusMetricsUsesRoutePattern(t *testing.T) {
	router := chi.NewRouter()
	router.Use(PrometheusMetrics)
	router.Get("/api/feed/{publicUrl}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	before := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("GET", "/api/feed/{publicUrl}", "200"))

	req := httptest.NewRequest(http.MethodGet, "/api/feed/abc123", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	after := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("GET", "/api/feed/{publicUrl}", "200"))
	if after != before+1 {
		t.Errorf("pattern-labeled counter = %v, want %v", after, before+1)
	}
}

func TestPrometheusMetricsCapturesStatus(t *testing.T) {
	router := chi.NewRouter()
	router.Use(PrometheusMetrics)
	router.Get("/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("GET", "/missing", "404"))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
	after := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("GET", "/missing", "404"))
	if after != before+1 {
		t.Errorf("status-labeled counter = %v, want %v", after, before+1)
	}
}
