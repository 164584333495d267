// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// timerKeyPrefix prefixes all timer keys in the shared badger DB. The full
// key is the Key.StorageKey contract: timer_{experimentId}_{participantId}.
const timerKeyPrefix = "timer_"

// BadgerStore implements StateStore on BadgerDB for durable timer state
// that survives server restarts.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore creates a badger-backed timer state store.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// Get retrieves the timer state for key.
func (s *BadgerStore) Get(_ context.Context, key Key) (TimerState, error) {
	var state TimerState

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key.StorageKey()))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrStateNotFound
		}
		if err != nil {
			return fmt.Errorf("get timer state: %w", err)
		}
		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &state); err != nil {
				return fmt.Errorf("%w: %s", ErrStateCorrupt, err)
			}
			return nil
		})
	})
	if err != nil {
		return TimerState{}, err
	}

	if state.StartedAtEpochMs <= 0 {
		return TimerState{}, fmt.Errorf("%w: non-positive start timestamp", ErrStateCorrupt)
	}
	return state, nil
}

// Set stores the timer state for key.
func (s *BadgerStore) Set(_ context.Context, key Key, state TimerState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal timer state: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key.StorageKey()), data)
	})
}

// Remove deletes the timer state for key. Absent keys are not an error.
func (s *BadgerStore) Remove(_ context.Context, key Key) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(key.StorageKey()))
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete timer state: %w", err)
		}
		return nil
	})
}

// List returns all parsable timer states. Corrupt entries are skipped; they
// are overwritten on the next session start for their key.
//
// Key parsing relies on experiment IDs being UUIDs (no underscore), so the
// first underscore after the prefix separates experiment from participant.
func (s *BadgerStore) List(_ context.Context) (map[Key]TimerState, error) {
	out := make(map[Key]TimerState)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(timerKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()

			rest := strings.TrimPrefix(string(item.Key()), timerKeyPrefix)
			expID, partID, ok := strings.Cut(rest, "_")
			if !ok || expID == "" || partID == "" {
				continue
			}

			var state TimerState
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &state)
			})
			if err != nil || state.StartedAtEpochMs <= 0 {
				continue
			}
			out[Key{ExperimentID: expID, ParticipantID: partID}] = state
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan timer states: %w", err)
	}
	return out, nil
}
