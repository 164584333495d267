// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package feed

import "github.com/feedstage/feedstage/internal/models"

// Compose turns the raw video list, project settings, and participant
// identifier into the final ordered feed. Pure: no side effects, all
// randomness is seed-driven, so a specific participant's ordering can be
// reproduced after the fact by replaying the same inputs.
func Compose(videos []models.Video, settings models.ProjectSettings, participantID string) []models.Video {
	seed := DeriveSeed(settings.RandomizationSeed, participantID)

	free := make([]models.Video, 0, len(videos))
	for _, v := range videos {
		if !v.IsLocked {
			free = append(free, v)
		}
	}

	shuffled := Shuffle(free, seed)
	return Resolve(videos, shuffled, settings.LockAllPositions)
}
