// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package session

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// State is the timer lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateRunning
	StateExpired
)

// String returns the wire name of the state.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateExpired:
		return "expired"
	default:
		return "uninitialized"
	}
}

// Clock abstracts time.Now for tests.
type Clock func() time.Time

// TimerConfig configures a Timer.
type TimerConfig struct {
	Key          Key
	LimitSeconds int

	// Persisted controls whether the start timestamp is read from and
	// written to the store, letting the countdown survive reloads.
	Persisted bool

	// Preview bypasses the state machine: the timer reports Running
	// forever, never persists, and never expires.
	Preview bool

	// Store is required when Persisted is set.
	Store StateStore

	// Clock defaults to time.Now.
	Clock Clock
}

// Timer is the countdown state machine for one (experiment, participant)
// session. It is not safe for concurrent use; a Runner or request handler
// owns it exclusively.
type Timer struct {
	cfg TimerConfig

	state     State
	remaining int
	startedAt int64 // epoch ms; zero until started
}

// NewTimer creates a timer in the Uninitialized state.
func NewTimer(cfg TimerConfig) (*Timer, error) {
	if cfg.LimitSeconds <= 0 {
		return nil, fmt.Errorf("session: time limit must be positive, got %d", cfg.LimitSeconds)
	}
	if cfg.Persisted && cfg.Store == nil {
		return nil, errors.New("session: persisted timer requires a store")
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Timer{cfg: cfg}, nil
}

// Start performs the entry transition.
//
// In persisted mode, absent (or corrupt) stored state is overwritten with a
// fresh start timestamp and the countdown begins at the full limit. Existing
// state resumes: elapsed whole seconds are subtracted from the limit, and a
// session already past its limit transitions straight to Expired with the
// stored state removed. Non-persisted and preview sessions always start
// fresh with no storage traffic.
//
// The returned resumed flag is true when existing stored state was used.
func (t *Timer) Start(ctx context.Context) (resumed bool, err error) {
	now := t.cfg.Clock()

	if t.cfg.Preview || !t.cfg.Persisted {
		t.state = StateRunning
		t.remaining = t.cfg.LimitSeconds
		t.startedAt = now.UnixMilli()
		return false, nil
	}

	stored, err := t.cfg.Store.Get(ctx, t.cfg.Key)
	switch {
	case errors.Is(err, ErrStateNotFound), errors.Is(err, ErrStateCorrupt):
		fresh := TimerState{StartedAtEpochMs: now.UnixMilli()}
		if err := t.cfg.Store.Set(ctx, t.cfg.Key, fresh); err != nil {
			return false, fmt.Errorf("persist timer state: %w", err)
		}
		t.state = StateRunning
		t.remaining = t.cfg.LimitSeconds
		t.startedAt = fresh.StartedAtEpochMs
		return false, nil

	case err != nil:
		return false, fmt.Errorf("read timer state: %w", err)
	}

	elapsed := int((now.UnixMilli() - stored.StartedAtEpochMs) / 1000)
	t.startedAt = stored.StartedAtEpochMs

	if elapsed >= t.cfg.LimitSeconds {
		if err := t.cfg.Store.Remove(ctx, t.cfg.Key); err != nil {
			return true, fmt.Errorf("remove expired timer state: %w", err)
		}
		t.state = StateExpired
		t.remaining = 0
		return true, nil
	}

	t.state = StateRunning
	t.remaining = t.cfg.LimitSeconds - elapsed
	return true, nil
}

// Tick decrements the countdown by one second. On reaching zero the timer
// transitions to Expired and, in persisted mode, deletes the stored state so
// a future session under the same key starts fresh. Preview timers never
// advance. Returns true on the transition to Expired.
func (t *Timer) Tick(ctx context.Context) (expired bool, err error) {
	if t.cfg.Preview || t.state != StateRunning {
		return false, nil
	}

	t.remaining--
	if t.remaining > 0 {
		return false, nil
	}

	t.remaining = 0
	t.state = StateExpired
	if t.cfg.Persisted {
		if err := t.cfg.Store.Remove(ctx, t.cfg.Key); err != nil {
			return true, fmt.Errorf("remove timer state on expiry: %w", err)
		}
	}
	return true, nil
}

// State returns the current lifecycle state.
func (t *Timer) State() State {
	return t.state
}

// Remaining returns the remaining whole seconds.
func (t *Timer) Remaining() int {
	return t.remaining
}

// StartedAtEpochMs returns the session start timestamp, zero before Start.
func (t *Timer) StartedAtEpochMs() int64 {
	return t.startedAt
}

// Peek computes the state a Start call would produce, without writing
// anything. Used by read-only status polls: absent state reports
// Uninitialized with the full limit remaining, corrupt state likewise
// (the next Start overwrites it), overdue state reports Expired.
func Peek(ctx context.Context, cfg TimerConfig) (State, int, error) {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	if cfg.Preview || !cfg.Persisted {
		return StateRunning, cfg.LimitSeconds, nil
	}
	if cfg.Store == nil {
		return StateUninitialized, cfg.LimitSeconds, errors.New("session: persisted timer requires a store")
	}

	stored, err := cfg.Store.Get(ctx, cfg.Key)
	switch {
	case errors.Is(err, ErrStateNotFound), errors.Is(err, ErrStateCorrupt):
		return StateUninitialized, cfg.LimitSeconds, nil
	case err != nil:
		return StateUninitialized, cfg.LimitSeconds, fmt.Errorf("read timer state: %w", err)
	}

	elapsed := int((cfg.Clock().UnixMilli() - stored.StartedAtEpochMs) / 1000)
	if elapsed >= cfg.LimitSeconds {
		return StateExpired, 0, nil
	}
	return StateRunning, cfg.LimitSeconds - elapsed, nil
}
