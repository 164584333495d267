// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package feed

import (
	"math"
	"sort"

	"github.com/feedstage/feedstage/internal/models"
)

// Resolve merges a shuffled free subsequence with position-locked items
// into one final ordering of length len(all).
//
// When lockAll is set the shuffle is bypassed entirely: the result is all
// items in authored order (position ascending, ties broken by original
// slice order).
//
// Otherwise locked items are placed first, in ascending order of their
// sanitized position. A locked item whose declared position is negative or
// not a finite number falls back to its index within the locked subset; a
// position past the end is clamped to the last slot. When two locked items
// want the same slot, the later one scans forward for the first free slot
// and wraps to the front if it runs off the end - locked items keep their
// relative intent instead of being dropped. Remaining slots are filled with
// shuffledFree in shuffled order.
//
// Invariants: the output length always equals len(all), every input item
// appears exactly once, and no empty slot survives, for any mix of locked
// and free items (including all locked to the same position).
func Resolve(all, shuffledFree []models.Video, lockAll bool) []models.Video {
	n := len(all)
	if n == 0 {
		return []models.Video{}
	}

	if lockAll {
		out := make([]models.Video, n)
		copy(out, all)
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Position < out[j].Position
		})
		return out
	}

	type lockedItem struct {
		video models.Video
		// sanitized stays float64 until placement so that sort order for
		// beyond-range positions is preserved before clamping.
		sanitized float64
	}

	var locked []lockedItem
	for _, v := range all {
		if v.IsLocked {
			locked = append(locked, lockedItem{
				video:     v,
				sanitized: sanitizePosition(v.Position, len(locked)),
			})
		}
	}
	sort.SliceStable(locked, func(i, j int) bool {
		return locked[i].sanitized < locked[j].sanitized
	})

	out := make([]models.Video, n)
	occupied := make([]bool, n)

	for _, li := range locked {
		slot := n - 1
		if li.sanitized < float64(n-1) {
			slot = int(li.sanitized)
		}
		idx := firstFreeSlot(occupied, slot)
		out[idx] = li.video
		occupied[idx] = true
	}

	next := 0
	for i := range out {
		if occupied[i] {
			continue
		}
		if next < len(shuffledFree) {
			out[i] = shuffledFree[next]
			next++
		}
	}
	return out
}

// sanitizePosition maps a declared position to its intended slot: floor of
// the value when it is a finite number >= 0, else the item's index within
// the locked-subset enumeration order (defensive default for corrupt data).
func sanitizePosition(pos float64, fallback int) float64 {
	if math.IsNaN(pos) || math.IsInf(pos, 0) || pos < 0 {
		return float64(fallback)
	}
	return math.Floor(pos)
}

// firstFreeSlot scans forward from want for an unoccupied slot, wrapping to
// the front when it runs off the end. The caller guarantees at least one
// free slot exists.
func firstFreeSlot(occupied []bool, want int) int {
	for i := want; i < len(occupied); i++ {
		if !occupied[i] {
			return i
		}
	}
	for i := 0; i < want; i++ {
		if !occupied[i] {
			return i
		}
	}
	return want
}
