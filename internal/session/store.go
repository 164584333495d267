// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package session

import (
	"context"
	"errors"
)

// Store errors.
var (
	// ErrStateNotFound indicates no timer state exists for the key.
	ErrStateNotFound = errors.New("session: timer state not found")

	// ErrStateCorrupt indicates stored timer state that fails to parse.
	// Callers treat this like ErrStateNotFound and start a fresh session.
	ErrStateCorrupt = errors.New("session: timer state corrupt")
)

// Key identifies one participant's timer within one experiment.
type Key struct {
	ExperimentID  string
	ParticipantID string
}

// StorageKey returns the composite storage key, timer_{experimentId}_{participantId}.
// The format is a public contract shared with feed clients that mirror the
// timer into their own local storage.
func (k Key) StorageKey() string {
	return "timer_" + k.ExperimentID + "_" + k.ParticipantID
}

// TimerState is the persisted shape of a running timer. Only the start
// timestamp is stored; remaining time is always recomputed from it.
type TimerState struct {
	StartedAtEpochMs int64 `json:"startedAtEpochMs"`
}

// StateStore is the minimal key/value contract the timer state machine
// needs. Implementations must return ErrStateNotFound for absent keys and
// ErrStateCorrupt (possibly wrapped) for unparsable values.
type StateStore interface {
	Get(ctx context.Context, key Key) (TimerState, error)
	Set(ctx context.Context, key Key, state TimerState) error
	Remove(ctx context.Context, key Key) error

	// List returns all stored timer states, for expiry sweeps.
	List(ctx context.Context) (map[Key]TimerState, error)
}
