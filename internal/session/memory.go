// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/goccy/go-json"
)

// MemoryStore is an in-memory StateStore for tests and ephemeral runs. It
// stores raw JSON bytes so tests can inject corrupt payloads the same way a
// damaged production store would surface them.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[Key][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[Key][]byte)}
}

// Get returns the state for key, ErrStateNotFound when absent, or
// ErrStateCorrupt when the stored bytes fail to parse.
func (s *MemoryStore) Get(_ context.Context, key Key) (TimerState, error) {
	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return TimerState{}, ErrStateNotFound
	}

	var state TimerState
	if err := json.Unmarshal(raw, &state); err != nil {
		return TimerState{}, fmt.Errorf("%w: %s", ErrStateCorrupt, err)
	}
	if state.StartedAtEpochMs <= 0 {
		return TimerState{}, fmt.Errorf("%w: non-positive start timestamp", ErrStateCorrupt)
	}
	return state, nil
}

// Set stores the state for key.
func (s *MemoryStore) Set(_ context.Context, key Key, state TimerState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal timer state: %w", err)
	}

	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
	return nil
}

// Remove deletes the state for key. Removing an absent key is not an error.
func (s *MemoryStore) Remove(_ context.Context, key Key) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

// List returns all parsable stored states. Corrupt entries are skipped.
func (s *MemoryStore) List(_ context.Context) (map[Key]TimerState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[Key]TimerState, len(s.data))
	for key, raw := range s.data {
		var state TimerState
		if err := json.Unmarshal(raw, &state); err != nil {
			continue
		}
		out[key] = state
	}
	return out, nil
}

// SetRaw stores arbitrary bytes under key. Test hook for corrupt state.
func (s *MemoryStore) SetRaw(key Key, raw []byte) {
	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
}

// Len returns the number of stored entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
