// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

// Package api provides the HTTP surface of the experiment platform using
// the chi router: the participant-facing feed and session endpoints, the
// end-screen handoff, interaction logging, health probes, and the
// Prometheus exporter.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/feedstage/feedstage/internal/catalog"
	"github.com/feedstage/feedstage/internal/config"
	"github.com/feedstage/feedstage/internal/events"
	"github.com/feedstage/feedstage/internal/logging"
	"github.com/feedstage/feedstage/internal/metrics"
	"github.com/feedstage/feedstage/internal/models"
	"github.com/feedstage/feedstage/internal/session"
)

// Version is the server version reported by health endpoints. Overridden at
// build time via -ldflags.
var Version = "dev"

// Handler bundles the collaborators the HTTP endpoints need.
type Handler struct {
	catalog   catalog.Store
	sessions  *session.Manager
	notifier  *events.BusNotifier
	cfg       *config.Config
	startedAt time.Time
}

// NewHandler creates the HTTP handler set.
func NewHandler(store catalog.Store, sessions *session.Manager, notifier *events.BusNotifier, cfg *config.Config) *Handler {
	return &Handler{
		catalog:   store,
		sessions:  sessions,
		notifier:  notifier,
		cfg:       cfg,
		startedAt: time.Now().UTC(),
	}
}

// experimentByPublicURL resolves the slug and enforces the kill switch.
// On failure it writes the error response and returns nil.
func (h *Handler) experimentByPublicURL(w http.ResponseWriter, r *http.Request, publicURL string) *models.Experiment {
	experiment, err := h.catalog.GetExperimentByPublicURL(r.Context(), publicURL)
	if errors.Is(err, catalog.ErrNotFound) {
		metrics.FeedNotFoundTotal.Inc()
		respondError(w, http.StatusNotFound, ErrCodeFeedNotFound, MsgFeedNotFound, nil)
		return nil
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load experiment", err)
		return nil
	}
	if !experiment.IsActive {
		metrics.FeedInactiveRejectionsTotal.Inc()
		respondError(w, http.StatusForbidden, ErrCodeExperimentInactive, MsgExperimentInactive, nil)
		return nil
	}
	return experiment
}

// projectSettings loads the experiment's project settings, falling back to
// defaults when the project document is missing. A feed must compose as
// long as the experiment and its videos exist.
func (h *Handler) projectSettings(ctx context.Context, experiment *models.Experiment) models.ProjectSettings {
	project, err := h.catalog.GetProject(ctx, experiment.ProjectID)
	if err != nil {
		logging.Warn().
			Str("experiment_id", experiment.ID).
			Str("project_id", experiment.ProjectID).
			Err(err).
			Msg("Project settings unavailable, using defaults")
		return models.DefaultProjectSettings()
	}
	settings := project.Settings
	if settings.QueryKey == "" {
		settings.QueryKey = models.DefaultQueryKey
	}
	if settings.TimeLimitSeconds <= 0 {
		settings.TimeLimitSeconds = models.DefaultTimeLimitSeconds
	}
	if settings.EndScreenMessage == "" {
		settings.EndScreenMessage = models.DefaultEndScreenMessage
	}
	return settings
}
