// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/feedstage/feedstage/internal/models"
)

// MemoryStore is an in-memory catalog for tests and ephemeral deployments.
type MemoryStore struct {
	mu           sync.RWMutex
	projects     map[string]models.Project
	experiments  map[string]models.Experiment
	urlIndex     map[string]string
	videos       map[string][]models.Video // experimentID -> videos
	participants map[string]map[string]models.Participant
	interactions map[string][]models.Interaction
}

// NewMemoryStore creates an empty in-memory catalog.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects:     make(map[string]models.Project),
		experiments:  make(map[string]models.Experiment),
		urlIndex:     make(map[string]string),
		videos:       make(map[string][]models.Video),
		participants: make(map[string]map[string]models.Participant),
		interactions: make(map[string][]models.Interaction),
	}
}

func (s *MemoryStore) PutProject(_ context.Context, project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[project.ID] = *project
	return nil
}

func (s *MemoryStore) GetProject(_ context.Context, id string) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	project, ok := s.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &project, nil
}

func (s *MemoryStore) PutExperiment(_ context.Context, experiment *models.Experiment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.experiments[experiment.ID] = *experiment
	s.urlIndex[experiment.PublicURL] = experiment.ID
	return nil
}

func (s *MemoryStore) GetExperiment(_ context.Context, id string) (*models.Experiment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	experiment, ok := s.experiments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &experiment, nil
}

func (s *MemoryStore) GetExperimentByPublicURL(_ context.Context, publicURL string) (*models.Experiment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.urlIndex[publicURL]
	if !ok {
		return nil, ErrNotFound
	}
	experiment, ok := s.experiments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &experiment, nil
}

func (s *MemoryStore) PutVideo(_ context.Context, video *models.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	videos := s.videos[video.ExperimentID]
	for i := range videos {
		if videos[i].ID == video.ID {
			videos[i] = *video
			return nil
		}
	}
	s.videos[video.ExperimentID] = append(videos, *video)
	return nil
}

func (s *MemoryStore) ListVideos(_ context.Context, experimentID string) ([]models.Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	videos := make([]models.Video, len(s.videos[experimentID]))
	copy(videos, s.videos[experimentID])
	sortVideos(videos)
	return videos, nil
}

func (s *MemoryStore) EnrollParticipant(_ context.Context, participant *models.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byID, ok := s.participants[participant.ExperimentID]
	if !ok {
		byID = make(map[string]models.Participant)
		s.participants[participant.ExperimentID] = byID
	}
	if _, exists := byID[participant.ParticipantID]; exists {
		return nil
	}
	byID[participant.ParticipantID] = *participant
	return nil
}

func (s *MemoryStore) ListParticipants(_ context.Context, experimentID string) ([]models.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	participants := make([]models.Participant, 0, len(s.participants[experimentID]))
	for _, participant := range s.participants[experimentID] {
		participants = append(participants, participant)
	}
	sort.Slice(participants, func(i, j int) bool {
		return participants[i].ParticipantID < participants[j].ParticipantID
	})
	return participants, nil
}

func (s *MemoryStore) AppendInteraction(_ context.Context, interaction *models.Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interactions[interaction.ExperimentID] = append(s.interactions[interaction.ExperimentID], *interaction)
	return nil
}

func (s *MemoryStore) ListInteractions(_ context.Context, experimentID string) ([]models.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	interactions := make([]models.Interaction, len(s.interactions[experimentID]))
	copy(interactions, s.interactions[experimentID])
	return interactions, nil
}
