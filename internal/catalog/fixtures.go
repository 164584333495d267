// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/feedstage/feedstage/internal/models"
)

// SeedDemo populates store with a small demo study so a fresh install
// serves a working feed immediately. Returns the demo experiment's public
// URL.
func SeedDemo(ctx context.Context, store Store) (string, error) {
	now := time.Now().UTC()

	project := &models.Project{
		ID:        uuid.New().String(),
		Name:      "Demo Study",
		CreatedAt: now,
		Settings:  models.DefaultProjectSettings(),
	}
	if err := store.PutProject(ctx, project); err != nil {
		return "", fmt.Errorf("seed project: %w", err)
	}

	experiment := &models.Experiment{
		ID:           uuid.New().String(),
		ProjectID:    project.ID,
		Name:         "Demo Feed",
		PublicURL:    "demo",
		PersistTimer: true,
		IsActive:     true,
		CreatedAt:    now,
	}
	if err := store.PutExperiment(ctx, experiment); err != nil {
		return "", fmt.Errorf("seed experiment: %w", err)
	}

	clips := []struct {
		filename string
		caption  string
		locked   bool
		position float64
	}{
		{"intro.mp4", "Welcome to the study", true, 0},
		{"clip-a.mp4", "A day at the lake", false, 1},
		{"clip-b.mp4", "Street food tour", false, 2},
		{"clip-c.mp4", "Mountain timelapse", false, 3},
		{"outro.mp4", "Thanks for watching", true, 4},
	}
	for i, clip := range clips {
		video := &models.Video{
			ID:           uuid.New().String(),
			ExperimentID: experiment.ID,
			Filename:     clip.filename,
			Caption:      clip.caption,
			Likes:        120 + 31*i,
			Comments:     8 + 5*i,
			Position:     clip.position,
			IsLocked:     clip.locked,
			CreatedAt:    now.Add(time.Duration(i) * time.Millisecond),
		}
		if err := store.PutVideo(ctx, video); err != nil {
			return "", fmt.Errorf("seed video %s: %w", clip.filename, err)
		}
	}

	return experiment.PublicURL, nil
}
