// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

// Package feed implements the participant feed composition engine: the
// deterministic, participant-specific ordering of stimulus videos.
//
// The engine is built from three pure functions composed by a fourth:
//
//   - DeriveSeed combines a project's base seed with a djb2 hash of the
//     participant identifier into one effective 32-bit seed.
//   - Shuffle produces a seeded Fisher-Yates permutation driven by a
//     Mulberry32 generator.
//   - Resolve merges the shuffled free items with position-locked items,
//     tolerating duplicate, negative, and out-of-range positions.
//   - Compose orchestrates the three for a feed request.
//
// Nothing in this package reads the clock, process entropy, or any other
// non-deterministic source: for a fixed (videos, seed, participant) input
// the output order is identical on every call, on every platform. This is
// what makes a specific participant's session reproducible for audit.
package feed
