// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/feedstage/feedstage/internal/feed"
	"github.com/feedstage/feedstage/internal/logging"
	"github.com/feedstage/feedstage/internal/metrics"
	"github.com/feedstage/feedstage/internal/models"
)

// Feed handles GET /api/feed/{publicUrl}. The participant identifier is
// read from the query parameter the project's queryKey names; every other
// query parameter is tracking data the client forwards untouched at session
// end. Videos are returned in final composed order.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	publicURL := chi.URLParam(r, "publicUrl")

	experiment := h.experimentByPublicURL(w, r, publicURL)
	if experiment == nil {
		return
	}
	settings := h.projectSettings(r.Context(), experiment)

	videos, err := h.catalog.ListVideos(r.Context(), experiment.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load videos", err)
		return
	}

	participantID := r.URL.Query().Get(settings.QueryKey)

	start := time.Now()
	composed := feed.Compose(videos, settings, participantID)
	metrics.RecordFeedComposition(settings.LockAllPositions, time.Since(start))

	logging.Ctx(r.Context()).Debug().
		Str("experiment_id", experiment.ID).
		Str("participant_id", sanitizeLogValue(participantID)).
		Int("video_count", len(composed)).
		Msg("Feed composed")

	respondSuccess(w, http.StatusOK, models.FeedResponse{
		ExperimentID:     experiment.ID,
		ExperimentName:   experiment.Name,
		PersistTimer:     experiment.PersistTimer,
		ShowUnmutePrompt: experiment.ShowUnmutePrompt,
		ProjectSettings: models.FeedSettings{
			QueryKey:         settings.QueryKey,
			TimeLimitSeconds: settings.TimeLimitSeconds,
			RedirectURL:      settings.RedirectURL,
			EndScreenMessage: settings.EndScreenMessage,
		},
		Videos: composed,
	})
}
