// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

// Package session implements the resumable, expiry-driven viewing session:
// a countdown state machine whose elapsed time is reconstructed from a
// stored start timestamp, so the timer survives page reloads.
//
// The pieces:
//
//   - Timer is the state machine (Uninitialized -> Running -> Expired).
//   - StateStore abstracts the persisted timer store behind Get/Set/Remove,
//     with BadgerStore for production and MemoryStore for tests.
//   - Runner drives a Timer with a cancellable once-per-second tick.
//   - Manager binds timers to experiments, keeps at most one live runner
//     per (experiment, participant) key, and emits lifecycle notifications.
//
// Corrupt persisted state is never fatal: it is treated as absent and
// overwritten with a fresh start timestamp. Concurrent clients racing to
// write the same start timestamp is an accepted limitation of the store
// contract, not something this package locks around.
package session
