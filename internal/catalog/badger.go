// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/feedstage/feedstage/internal/metrics"
	"github.com/feedstage/feedstage/internal/models"
)

// BadgerStore is the catalog backed by a Badger key/value database. It can
// share a DB handle with the session state store; the key prefixes do not
// overlap.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore wraps db as a catalog store. The caller owns db's
// lifecycle.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func (s *BadgerStore) putJSON(key string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

func (s *BadgerStore) getJSON(key string, doc any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get %s: %w", key, err)
		}
		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, doc); err != nil {
				return fmt.Errorf("unmarshal %s: %w", key, err)
			}
			return nil
		})
	})
}

// listPrefix visits every value stored under prefix.
func listPrefix(db *badger.DB, prefix string, visit func(val []byte) error) error {
	return db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				return visit(val)
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BadgerStore) PutProject(_ context.Context, project *models.Project) error {
	start := time.Now()
	err := s.putJSON(prefixProject+project.ID, project)
	metrics.RecordStoreOperation("put_project", time.Since(start), err)
	return err
}

func (s *BadgerStore) GetProject(_ context.Context, id string) (*models.Project, error) {
	start := time.Now()
	var project models.Project
	err := s.getJSON(prefixProject+id, &project)
	metrics.RecordStoreOperation("get_project", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// PutExperiment stores the experiment and maintains the public URL index in
// the same transaction so a slug never points at a missing document.
func (s *BadgerStore) PutExperiment(_ context.Context, experiment *models.Experiment) error {
	start := time.Now()
	data, err := json.Marshal(experiment)
	if err != nil {
		return fmt.Errorf("marshal experiment %s: %w", experiment.ID, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(prefixExperiment+experiment.ID), data); err != nil {
			return err
		}
		return txn.Set([]byte(prefixURLIndex+experiment.PublicURL), []byte(experiment.ID))
	})
	metrics.RecordStoreOperation("put_experiment", time.Since(start), err)
	return err
}

func (s *BadgerStore) GetExperiment(_ context.Context, id string) (*models.Experiment, error) {
	start := time.Now()
	var experiment models.Experiment
	err := s.getJSON(prefixExperiment+id, &experiment)
	metrics.RecordStoreOperation("get_experiment", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return &experiment, nil
}

func (s *BadgerStore) GetExperimentByPublicURL(ctx context.Context, publicURL string) (*models.Experiment, error) {
	start := time.Now()
	var id string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(prefixURLIndex + publicURL))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get url index %s: %w", publicURL, err)
		}
		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})
	metrics.RecordStoreOperation("get_experiment_by_url", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return s.GetExperiment(ctx, id)
}

func (s *BadgerStore) PutVideo(_ context.Context, video *models.Video) error {
	start := time.Now()
	err := s.putJSON(prefixVideo+video.ExperimentID+":"+video.ID, video)
	metrics.RecordStoreOperation("put_video", time.Since(start), err)
	return err
}

func (s *BadgerStore) ListVideos(_ context.Context, experimentID string) ([]models.Video, error) {
	start := time.Now()
	videos := []models.Video{}
	err := listPrefix(s.db, prefixVideo+experimentID+":", func(val []byte) error {
		var video models.Video
		if err := json.Unmarshal(val, &video); err != nil {
			return fmt.Errorf("unmarshal video: %w", err)
		}
		videos = append(videos, video)
		return nil
	})
	metrics.RecordStoreOperation("list_videos", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	sortVideos(videos)
	return videos, nil
}

// sortVideos orders by authored position, creation time, then ID. Positions
// are researcher-authored and may repeat.
func sortVideos(videos []models.Video) {
	sort.SliceStable(videos, func(i, j int) bool {
		if videos[i].Position != videos[j].Position {
			return videos[i].Position < videos[j].Position
		}
		if !videos[i].CreatedAt.Equal(videos[j].CreatedAt) {
			return videos[i].CreatedAt.Before(videos[j].CreatedAt)
		}
		return videos[i].ID < videos[j].ID
	})
}

func (s *BadgerStore) EnrollParticipant(_ context.Context, participant *models.Participant) error {
	start := time.Now()
	key := prefixParticipant + participant.ExperimentID + ":" + participant.ParticipantID
	data, err := json.Marshal(participant)
	if err != nil {
		return fmt.Errorf("marshal participant: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		// First enrollment wins; a repeat visit keeps the original record.
		_, err := txn.Get([]byte(key))
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set([]byte(key), data)
	})
	metrics.RecordStoreOperation("enroll_participant", time.Since(start), err)
	return err
}

func (s *BadgerStore) ListParticipants(_ context.Context, experimentID string) ([]models.Participant, error) {
	start := time.Now()
	participants := []models.Participant{}
	err := listPrefix(s.db, prefixParticipant+experimentID+":", func(val []byte) error {
		var participant models.Participant
		if err := json.Unmarshal(val, &participant); err != nil {
			return fmt.Errorf("unmarshal participant: %w", err)
		}
		participants = append(participants, participant)
		return nil
	})
	metrics.RecordStoreOperation("list_participants", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return participants, nil
}

func (s *BadgerStore) AppendInteraction(_ context.Context, interaction *models.Interaction) error {
	start := time.Now()
	err := s.putJSON(prefixInteraction+interaction.ExperimentID+":"+interaction.ID, interaction)
	metrics.RecordStoreOperation("append_interaction", time.Since(start), err)
	return err
}

func (s *BadgerStore) ListInteractions(_ context.Context, experimentID string) ([]models.Interaction, error) {
	start := time.Now()
	interactions := []models.Interaction{}
	err := listPrefix(s.db, prefixInteraction+experimentID+":", func(val []byte) error {
		var interaction models.Interaction
		if err := json.Unmarshal(val, &interaction); err != nil {
			return fmt.Errorf("unmarshal interaction: %w", err)
		}
		interactions = append(interactions, interaction)
		return nil
	})
	metrics.RecordStoreOperation("list_interactions", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(interactions, func(i, j int) bool {
		return interactions[i].CreatedAt.Before(interactions[j].CreatedAt)
	})
	return interactions, nil
}
