// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/feedstage/feedstage/internal/config"
	"github.com/feedstage/feedstage/internal/metrics"
	"github.com/feedstage/feedstage/internal/middleware"
)

// NewRouter wires the full HTTP surface.
func NewRouter(handler *Handler, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.API.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.PrometheusMetrics)

	rateLimit := httprate.Limit(
		cfg.API.RateLimit,
		cfg.API.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.APIRateLimitHits.WithLabelValues(r.URL.Path).Inc()
			respondError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests", nil)
		}),
	)

	// Participant-facing endpoints.
	r.Route("/api", func(r chi.Router) {
		r.Use(rateLimit)
		// promhttp negotiates its own encoding on /metrics, so gzip stays
		// scoped to the JSON surface.
		r.Use(middleware.Compression)

		r.Get("/feed/{publicUrl}", handler.Feed)

		r.Route("/session/{publicUrl}", func(r chi.Router) {
			r.Post("/start", handler.SessionStart)
			r.Post("/status", handler.SessionStatus)
			r.Post("/complete", handler.SessionComplete)
		})

		r.Post("/interactions", handler.LogInteraction)

		r.Get("/health", handler.Health)
		r.Get("/health/live", handler.HealthLive)
		r.Get("/health/ready", handler.HealthReady)
	})

	// End-screen handoff sits outside /api; it is the URL participants are
	// navigated to.
	r.With(rateLimit).Get("/end/{publicUrl}", handler.EndScreen)

	// Admin surface.
	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(rateLimit)
		r.Post("/seed", handler.SeedCatalog)
	})

	// Prometheus exporter.
	r.Handle("/metrics", promhttp.Handler())

	return r
}
