// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

// Package models defines the domain types shared across Feedstage:
// projects, experiments, stimulus videos, participants, interactions,
// and the standardized API response envelope.
//
// JSON field names follow the public API contract (camelCase), matching
// what the participant-facing feed client consumes.
package models
