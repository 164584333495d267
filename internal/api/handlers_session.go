// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// sessionRequest is the body of the session endpoints.
type sessionRequest struct {
	ParticipantID string `json:"participantId" validate:"required,max=128"`
}

// SessionStart handles POST /api/session/{publicUrl}/start. Starting an
// already-running persisted session resumes it; a session past its limit
// reports expired immediately.
func (h *Handler) SessionStart(w http.ResponseWriter, r *http.Request) {
	h.sessionCall(w, r, func(req sessionRequest) {
		experiment := h.experimentByPublicURL(w, r, chi.URLParam(r, "publicUrl"))
		if experiment == nil {
			return
		}
		settings := h.projectSettings(r.Context(), experiment)

		result, err := h.sessions.Start(r.Context(), experiment, settings.TimeLimitSeconds, req.ParticipantID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, ErrCodeSessionError, "Failed to start session", err)
			return
		}
		respondSuccess(w, http.StatusOK, result)
	})
}

// SessionStatus handles POST /api/session/{publicUrl}/status. It is a pure
// read: polling never creates or extends a session.
func (h *Handler) SessionStatus(w http.ResponseWriter, r *http.Request) {
	h.sessionCall(w, r, func(req sessionRequest) {
		experiment := h.experimentByPublicURL(w, r, chi.URLParam(r, "publicUrl"))
		if experiment == nil {
			return
		}
		settings := h.projectSettings(r.Context(), experiment)

		result, err := h.sessions.Status(r.Context(), experiment, settings.TimeLimitSeconds, req.ParticipantID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, ErrCodeSessionError, "Failed to read session", err)
			return
		}
		respondSuccess(w, http.StatusOK, result)
	})
}

// SessionComplete handles POST /api/session/{publicUrl}/complete. The
// countdown stops, persisted state is removed so a future session under the
// same key starts fresh, and session.ended is published.
func (h *Handler) SessionComplete(w http.ResponseWriter, r *http.Request) {
	h.sessionCall(w, r, func(req sessionRequest) {
		experiment := h.experimentByPublicURL(w, r, chi.URLParam(r, "publicUrl"))
		if experiment == nil {
			return
		}

		if err := h.sessions.Complete(r.Context(), experiment, req.ParticipantID); err != nil {
			respondError(w, http.StatusInternalServerError, ErrCodeSessionError, "Failed to complete session", err)
			return
		}
		respondSuccess(w, http.StatusOK, map[string]string{"state": "completed"})
	})
}

// sessionCall decodes and validates the shared session request body before
// dispatching to fn.
func (h *Handler) sessionCall(w http.ResponseWriter, r *http.Request, fn func(sessionRequest)) {
	var req sessionRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Malformed request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondJSONValidationError(w, apiErr)
		return
	}
	fn(req)
}
