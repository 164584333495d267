// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package session

import (
	"context"
	"sync"
	"time"

	"github.com/feedstage/feedstage/internal/logging"
	"github.com/feedstage/feedstage/internal/metrics"
	"github.com/feedstage/feedstage/internal/models"
)

// PreviewParticipantID is the reserved identifier researchers use to open
// their own feed: preview sessions never persist, never expire, and emit no
// lifecycle notifications.
const PreviewParticipantID = "preview"

// Notifier receives session lifecycle notifications. The engine only needs
// to know the interaction logger exists, not how it persists anything.
type Notifier interface {
	SessionStarted(ctx context.Context, experimentID, participantID string)
	SessionEnded(ctx context.Context, experimentID, participantID, reason string)
}

// End reasons passed to Notifier.SessionEnded.
const (
	EndReasonExpired   = "expired"
	EndReasonCompleted = "completed"
	EndReasonSwept     = "swept"
)

// StartResult reports the state of a session after entry or on a status
// poll.
type StartResult struct {
	State            string `json:"state"`
	RemainingSeconds int    `json:"remainingSeconds"`
	StartedAtEpochMs int64  `json:"startedAtEpochMs,omitempty"`
	Preview          bool   `json:"preview,omitempty"`
}

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	// TickInterval between timer ticks. Defaults to one second.
	TickInterval time.Duration

	// Clock defaults to time.Now.
	Clock Clock
}

// activeRun tracks one live runner so a key never has two timers ticking.
type activeRun struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Manager owns the server-side session timers. It keeps at most one live
// runner per (experiment, participant) key, publishes lifecycle
// notifications, and sweeps abandoned persisted state.
type Manager struct {
	store    StateStore
	notifier Notifier
	tick     time.Duration
	clock    Clock

	mu     sync.Mutex
	active map[Key]*activeRun
	closed bool
}

// NewManager creates a session manager. notifier may be nil.
func NewManager(store StateStore, notifier Notifier, cfg ManagerConfig) *Manager {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Manager{
		store:    store,
		notifier: notifier,
		tick:     cfg.TickInterval,
		clock:    cfg.Clock,
		active:   make(map[Key]*activeRun),
	}
}

// timerConfig builds the TimerConfig for one experiment/participant pair.
func (m *Manager) timerConfig(exp *models.Experiment, limitSeconds int, participantID string) TimerConfig {
	preview := participantID == PreviewParticipantID
	return TimerConfig{
		Key:          Key{ExperimentID: exp.ID, ParticipantID: participantID},
		LimitSeconds: limitSeconds,
		Persisted:    exp.PersistTimer && !preview,
		Preview:      preview,
		Store:        m.store,
		Clock:        m.clock,
	}
}

// Start begins or resumes the session for participantID in exp. A fresh
// start publishes session.started; resuming an already-finished session
// reports Expired immediately. While the session runs, a background runner
// ticks it down and publishes session.ended at expiry even if the client
// never calls back.
func (m *Manager) Start(ctx context.Context, exp *models.Experiment, limitSeconds int, participantID string) (StartResult, error) {
	cfg := m.timerConfig(exp, limitSeconds, participantID)

	timer, err := NewTimer(cfg)
	if err != nil {
		return StartResult{}, err
	}
	resumed, err := timer.Start(ctx)
	if err != nil {
		return StartResult{}, err
	}

	result := StartResult{
		State:            timer.State().String(),
		RemainingSeconds: timer.Remaining(),
		StartedAtEpochMs: timer.StartedAtEpochMs(),
		Preview:          cfg.Preview,
	}

	if cfg.Preview {
		return result, nil
	}

	if timer.State() == StateExpired {
		m.notifyEnded(ctx, exp.ID, participantID, EndReasonExpired)
		return result, nil
	}

	if !resumed {
		metrics.SessionsStartedTotal.WithLabelValues(sessionMode(cfg)).Inc()
		if m.notifier != nil {
			m.notifier.SessionStarted(ctx, exp.ID, participantID)
		}
	}

	m.ensureRunner(cfg.Key, timer)
	return result, nil
}

// Status reports the session state without creating or mutating anything.
func (m *Manager) Status(ctx context.Context, exp *models.Experiment, limitSeconds int, participantID string) (StartResult, error) {
	cfg := m.timerConfig(exp, limitSeconds, participantID)
	state, remaining, err := Peek(ctx, cfg)
	if err != nil {
		return StartResult{}, err
	}
	return StartResult{
		State:            state.String(),
		RemainingSeconds: remaining,
		Preview:          cfg.Preview,
	}, nil
}

// Complete concludes the session: the runner is cancelled synchronously,
// persisted state is removed, and session.ended is published. Completing an
// unknown or already-finished session is not an error.
func (m *Manager) Complete(ctx context.Context, exp *models.Experiment, participantID string) error {
	if participantID == PreviewParticipantID {
		return nil
	}
	key := Key{ExperimentID: exp.ID, ParticipantID: participantID}

	m.stopRunner(key)
	if err := m.store.Remove(ctx, key); err != nil {
		return err
	}

	metrics.SessionsCompletedTotal.Inc()
	m.notifyEnded(ctx, exp.ID, participantID, EndReasonCompleted)
	return nil
}

// ensureRunner starts a background runner for key unless one is live.
func (m *Manager) ensureRunner(key Key, timer *Timer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	if _, ok := m.active[key]; ok {
		return
	}

	runCtx, cancel := context.WithCancel(context.Background())
	run := &activeRun{cancel: cancel, done: make(chan struct{})}
	m.active[key] = run

	runner := NewRunner(timer, RunnerConfig{
		Interval: m.tick,
		OnExpire: func() {
			metrics.SessionsExpiredTotal.Inc()
			m.notifyEnded(runCtx, key.ExperimentID, key.ParticipantID, EndReasonExpired)
		},
	})

	go func() {
		defer close(run.done)
		defer m.dropRunner(key, run)
		if err := runner.Run(runCtx); err != nil && runCtx.Err() == nil {
			logging.Err(err).
				Str("experiment", key.ExperimentID).
				Str("participant", key.ParticipantID).
				Msg("Session runner stopped with error")
		}
	}()
}

// stopRunner cancels the runner for key and waits for its loop to exit.
func (m *Manager) stopRunner(key Key) {
	m.mu.Lock()
	run, ok := m.active[key]
	if ok {
		delete(m.active, key)
	}
	m.mu.Unlock()

	if ok {
		run.cancel()
		<-run.done
	}
}

// dropRunner removes a finished runner if it is still the registered one.
func (m *Manager) dropRunner(key Key, run *activeRun) {
	m.mu.Lock()
	if current, ok := m.active[key]; ok && current == run {
		delete(m.active, key)
	}
	m.mu.Unlock()
}

// notifyEnded publishes session.ended when a notifier is configured.
func (m *Manager) notifyEnded(ctx context.Context, experimentID, participantID, reason string) {
	if m.notifier != nil {
		m.notifier.SessionEnded(ctx, experimentID, participantID, reason)
	}
}

// ActiveCount returns the number of live runners, for health reporting.
func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}

// SweepExpired removes persisted timer state whose elapsed time exceeds its
// experiment's limit plus grace. limitFor resolves an experiment's time
// limit; unknown experiments are swept with grace alone (their state can
// never resume anyway). Returns the number of entries removed.
//
// The sweep covers sessions orphaned by a server restart, where no runner
// survived to delete the state at expiry.
func (m *Manager) SweepExpired(ctx context.Context, grace time.Duration, limitFor func(experimentID string) (int, bool)) (int, error) {
	states, err := m.store.List(ctx)
	if err != nil {
		return 0, err
	}

	now := m.clock().UnixMilli()
	swept := 0
	for key, state := range states {
		limit := 0
		if limitFor != nil {
			if l, ok := limitFor(key.ExperimentID); ok {
				limit = l
			}
		}
		deadline := state.StartedAtEpochMs + int64(limit)*1000 + grace.Milliseconds()
		if now < deadline {
			continue
		}

		m.stopRunner(key)
		if err := m.store.Remove(ctx, key); err != nil {
			logging.Err(err).Str("key", key.StorageKey()).Msg("Sweep failed to remove timer state")
			continue
		}
		swept++
		metrics.SessionsExpiredTotal.Inc()
		m.notifyEnded(ctx, key.ExperimentID, key.ParticipantID, EndReasonSwept)
	}
	return swept, nil
}

// Close cancels all live runners and waits for them to stop. The manager
// accepts no new runners afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	runs := make([]*activeRun, 0, len(m.active))
	for key, run := range m.active {
		runs = append(runs, run)
		delete(m.active, key)
	}
	m.mu.Unlock()

	for _, run := range runs {
		run.cancel()
		<-run.done
	}
}

// sessionMode labels metrics by persistence mode.
func sessionMode(cfg TimerConfig) string {
	if cfg.Persisted {
		return "persisted"
	}
	return "ephemeral"
}
