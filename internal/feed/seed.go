// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package feed

import "unicode/utf16"

// DeriveSeed turns a project's base seed plus an optional participant
// identifier into the effective per-participant seed. An absent or empty
// identifier returns the base seed unchanged, so anonymous previews share
// one ordering.
//
// All arithmetic wraps in the 32-bit signed domain. The result for a fixed
// (baseSeed, participantID) pair is stable across platforms and matches the
// reference feed clients bit for bit.
func DeriveSeed(baseSeed int32, participantID string) int32 {
	if participantID == "" {
		return baseSeed
	}
	h := hashParticipant(participantID)
	if h < 0 {
		// Negation of MinInt32 wraps back to itself; still deterministic.
		h = -h
	}
	return baseSeed + h
}

// hashParticipant computes the djb2 hash of the identifier over its UTF-16
// code units, wrapping in int32. UTF-16 units (not runes or bytes) keep the
// value identical to what JavaScript charCodeAt-based clients compute.
func hashParticipant(id string) int32 {
	var h int32 = 5381
	for _, cu := range utf16.Encode([]rune(id)) {
		h = h*33 + int32(cu)
	}
	return h
}
