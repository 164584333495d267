// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/feedstage/feedstage/internal/logging"
	"github.com/feedstage/feedstage/internal/models"
	"github.com/feedstage/feedstage/internal/redirect"
)

// EndScreen handles GET /end/{publicUrl}. It consumes the reserved handoff
// keys, merges the participant's original inbound parameters into the
// configured redirect destination, and returns the message plus final
// redirect URL. A missing or malformed redirect base degrades to
// message-only; the participant never sees an error.
func (h *Handler) EndScreen(w http.ResponseWriter, r *http.Request) {
	publicURL := chi.URLParam(r, "publicUrl")

	experiment := h.experimentByPublicURL(w, r, publicURL)
	if experiment == nil {
		return
	}
	settings := h.projectSettings(r.Context(), experiment)

	params := redirect.ParseEndScreenQuery(r.URL.Query())

	message := params.Message
	if message == "" {
		message = settings.EndScreenMessage
	}
	redirectBase := params.RedirectBase
	if redirectBase == "" {
		redirectBase = settings.RedirectURL
	}

	finalURL, err := redirect.BuildFinalRedirectURL(redirectBase, params.OriginalParams)
	if err != nil {
		logging.Ctx(r.Context()).Error().
			Str("experiment_id", experiment.ID).
			Str("redirect_base", sanitizeLogValue(redirectBase)).
			Err(err).
			Msg("Redirect destination rejected, degrading to message-only")
		finalURL = ""
	}

	respondSuccess(w, http.StatusOK, models.EndScreenResponse{
		Message:     message,
		RedirectURL: finalURL,
	})
}
