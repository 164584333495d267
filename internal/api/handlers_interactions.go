// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/feedstage/feedstage/internal/logging"
	"github.com/feedstage/feedstage/internal/metrics"
	"github.com/feedstage/feedstage/internal/models"
)

// interactionRequest is the body of POST /api/interactions.
type interactionRequest struct {
	ExperimentID    string                 `json:"experimentId" validate:"required"`
	ParticipantID   string                 `json:"participantId" validate:"required,max=128"`
	VideoID         string                 `json:"videoId"`
	InteractionType string                 `json:"interactionType" validate:"required,max=64"`
	InteractionData map[string]interface{} `json:"interactionData"`
	WatchTimeMs     int64                  `json:"watchTimeMs" validate:"gte=0"`
}

// LogInteraction handles POST /api/interactions. The participant is
// enrolled implicitly on their first interaction, the interaction is
// persisted, and interaction.logged is published for downstream consumers.
func (h *Handler) LogInteraction(w http.ResponseWriter, r *http.Request) {
	var req interactionRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Malformed request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondJSONValidationError(w, apiErr)
		return
	}

	experiment, err := h.catalog.GetExperiment(r.Context(), req.ExperimentID)
	if err != nil {
		respondError(w, http.StatusNotFound, ErrCodeFeedNotFound, MsgFeedNotFound, nil)
		return
	}

	now := time.Now().UTC()
	if err := h.catalog.EnrollParticipant(r.Context(), &models.Participant{
		ExperimentID:  experiment.ID,
		ParticipantID: req.ParticipantID,
		EnrolledAt:    now,
	}); err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to enroll participant", err)
		return
	}

	interaction := &models.Interaction{
		ID:            uuid.New().String(),
		ExperimentID:  experiment.ID,
		ParticipantID: req.ParticipantID,
		VideoID:       req.VideoID,
		Type:          req.InteractionType,
		Data:          req.InteractionData,
		CreatedAt:     now,
	}
	if err := h.catalog.AppendInteraction(r.Context(), interaction); err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to store interaction", err)
		return
	}

	metrics.InteractionsLoggedTotal.WithLabelValues(interaction.Type).Inc()
	if h.notifier != nil {
		h.notifier.InteractionLogged(r.Context(), experiment.ID, req.ParticipantID,
			req.InteractionType, req.VideoID, req.WatchTimeMs)
	}

	logging.Ctx(r.Context()).Debug().
		Str("experiment_id", experiment.ID).
		Str("interaction_type", sanitizeLogValue(req.InteractionType)).
		Msg("Interaction logged")

	respondSuccess(w, http.StatusCreated, map[string]string{"id": interaction.ID})
}
