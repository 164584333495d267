// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package feed

// mulberry32 is a 32-bit seeded generator: one additive constant advances
// the state per draw, xorshift-multiply steps mix it into a [0,1) float.
// It is small, fast, and - unlike math/rand - produces the exact stream the
// reference feed clients produce for the same seed, which is what keeps a
// participant's ordering identical across implementations.
type mulberry32 struct {
	state uint32
}

func newMulberry32(seed int32) *mulberry32 {
	return &mulberry32{state: uint32(seed)}
}

// Float64 returns the next value in [0, 1).
func (m *mulberry32) Float64() float64 {
	m.state += 0x6D2B79F5
	z := m.state
	z = (z ^ (z >> 15)) * (z | 1)
	z ^= z + (z^(z>>7))*(z|61)
	z ^= z >> 14
	return float64(z) / 4294967296.0
}

// Shuffle returns a seeded Fisher-Yates permutation of items, walking from
// the last index down to 1. The input slice is never mutated; the output is
// always a permutation of the input (same length, same elements). The same
// (items, seed) pair yields the same permutation on every call.
func Shuffle[T any](items []T, seed int32) []T {
	out := make([]T, len(items))
	copy(out, items)

	rng := newMulberry32(seed)
	for i := len(out) - 1; i >= 1; i-- {
		j := int(rng.Float64() * float64(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}
