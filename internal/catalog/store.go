// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

// Package catalog stores the research catalog: projects, experiments,
// stimulus videos, participant enrollments, and logged interactions. The
// composition engine reads the catalog; the admin seeding endpoint and the
// interaction logger write it.
package catalog

import (
	"context"
	"errors"

	"github.com/feedstage/feedstage/internal/models"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("catalog: not found")

// Store is the catalog persistence interface. Implementations must be safe
// for concurrent use.
type Store interface {
	PutProject(ctx context.Context, project *models.Project) error
	GetProject(ctx context.Context, id string) (*models.Project, error)

	PutExperiment(ctx context.Context, experiment *models.Experiment) error
	GetExperiment(ctx context.Context, id string) (*models.Experiment, error)

	// GetExperimentByPublicURL resolves the participant-facing slug.
	GetExperimentByPublicURL(ctx context.Context, publicURL string) (*models.Experiment, error)

	PutVideo(ctx context.Context, video *models.Video) error

	// ListVideos returns an experiment's videos in authored order: position
	// ascending, ties broken by creation time then ID so the order is
	// stable across calls.
	ListVideos(ctx context.Context, experimentID string) ([]models.Video, error)

	// EnrollParticipant records a participant the first time they are seen.
	// Re-enrolling an existing participant is a no-op.
	EnrollParticipant(ctx context.Context, participant *models.Participant) error
	ListParticipants(ctx context.Context, experimentID string) ([]models.Participant, error)

	AppendInteraction(ctx context.Context, interaction *models.Interaction) error
	ListInteractions(ctx context.Context, experimentID string) ([]models.Interaction, error)
}

// Badger key prefixes. Experiment public URLs get their own index so feed
// lookups stay a single point read.
const (
	prefixProject     = "project:"
	prefixExperiment  = "experiment:"
	prefixURLIndex    = "experiment_url:"
	prefixVideo       = "video:"
	prefixParticipant = "participant:"
	prefixInteraction = "interaction:"
)
