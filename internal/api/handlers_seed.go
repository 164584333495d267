// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/feedstage/feedstage/internal/catalog"
	"github.com/feedstage/feedstage/internal/models"
)

// seedRequest carries a study definition to load into the catalog.
type seedRequest struct {
	Project     models.Project      `json:"project" validate:"required"`
	Experiments []models.Experiment `json:"experiments" validate:"min=1,dive"`
	Videos      []models.Video      `json:"videos" validate:"dive"`
}

// SeedCatalog handles POST /api/v1/admin/seed. With an empty body it loads
// the built-in demo study; otherwise it loads the posted study definition.
// Disabled outside development.
func (h *Handler) SeedCatalog(w http.ResponseWriter, r *http.Request) {
	if h.cfg.IsProduction() {
		respondError(w, http.StatusForbidden, ErrCodeForbidden, "Seeding is disabled in production", nil)
		return
	}

	var req seedRequest
	err := decodeJSONBody(w, r, &req)
	if errors.Is(err, io.EOF) {
		publicURL, seedErr := catalog.SeedDemo(r.Context(), h.catalog)
		if seedErr != nil {
			respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to seed demo study", seedErr)
			return
		}
		respondSuccess(w, http.StatusCreated, map[string]string{"publicUrl": publicURL})
		return
	}
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Malformed request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondJSONValidationError(w, apiErr)
		return
	}

	now := time.Now().UTC()
	project := req.Project
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	if project.CreatedAt.IsZero() {
		project.CreatedAt = now
	}
	if project.Settings.QueryKey == "" {
		project.Settings = models.DefaultProjectSettings()
	}
	if err := h.catalog.PutProject(r.Context(), &project); err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to store project", err)
		return
	}

	for i := range req.Experiments {
		experiment := req.Experiments[i]
		if experiment.ID == "" {
			experiment.ID = uuid.New().String()
		}
		experiment.ProjectID = project.ID
		if experiment.CreatedAt.IsZero() {
			experiment.CreatedAt = now
		}
		if err := h.catalog.PutExperiment(r.Context(), &experiment); err != nil {
			respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to store experiment", err)
			return
		}
		req.Experiments[i] = experiment
	}

	for i := range req.Videos {
		video := req.Videos[i]
		if video.ID == "" {
			video.ID = uuid.New().String()
		}
		if video.ExperimentID == "" {
			video.ExperimentID = req.Experiments[0].ID
		}
		if video.CreatedAt.IsZero() {
			// Preserve submission order for equal positions.
			video.CreatedAt = now.Add(time.Duration(i) * time.Millisecond)
		}
		if err := h.catalog.PutVideo(r.Context(), &video); err != nil {
			respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to store video", err)
			return
		}
	}

	respondSuccess(w, http.StatusCreated, map[string]interface{}{
		"projectId":   project.ID,
		"experiments": len(req.Experiments),
		"videos":      len(req.Videos),
	})
}
