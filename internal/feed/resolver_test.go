// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package feed

import (
	"fmt"
	"math"
	"testing"

	"github.com/feedstage/feedstage/internal/models"
)

// makeVideos builds n videos with authored positions 0..n-1; ids in lockedIDs
// are marked locked.
func makeVideos(n int, lockedIDs ...string) []models.Video {
	locked := make(map[string]bool, len(lockedIDs))
	for _, id := range lockedIDs {
		locked[id] = true
	}
	videos := make([]models.Video, n)
	for i := range videos {
		id := fmt.Sprintf("v%d", i)
		videos[i] = models.Video{ID: id, Position: float64(i), IsLocked: locked[id]}
	}
	return videos
}

func freeOf(all []models.Video) []models.Video {
	var free []models.Video
	for _, v := range all {
		if !v.IsLocked {
			free = append(free, v)
		}
	}
	return free
}

func assertPermutation(t *testing.T, in, out []models.Video) {
	t.Helper()
	if len(out) != len(in) {
		t.Fatalf("length %d, want %d", len(out), len(in))
	}
	seen := make(map[string]bool, len(out))
	for i, v := range out {
		if v.ID == "" {
			t.Fatalf("slot %d is empty", i)
		}
		if seen[v.ID] {
			t.Fatalf("duplicate %s in output", v.ID)
		}
		seen[v.ID] = true
	}
	for _, v := range in {
		if !seen[v.ID] {
			t.Fatalf("missing %s in output", v.ID)
		}
	}
}

func TestResolve_LockAllBypassesShuffle(t *testing.T) {
	all := makeVideos(5)
	// Shuffled order deliberately scrambled; lockAll must ignore it.
	shuffled := []models.Video{all[3], all[1], all[4], all[0], all[2]}
	out := Resolve(all, shuffled, true)
	for i, v := range out {
		if v.ID != fmt.Sprintf("v%d", i) {
			t.Fatalf("slot %d: got %s, want v%d", i, v.ID, i)
		}
	}
}

func TestResolve_LockAllStableOnDuplicatePositions(t *testing.T) {
	all := []models.Video{
		{ID: "a", Position: 1},
		{ID: "b", Position: 0},
		{ID: "c", Position: 1},
	}
	out := Resolve(all, nil, true)
	want := []string{"b", "a", "c"}
	for i, id := range want {
		if out[i].ID != id {
			t.Fatalf("slot %d: got %s, want %s", i, out[i].ID, id)
		}
	}
}

func TestResolve_LockedItemKeepsSlot(t *testing.T) {
	all := makeVideos(5, "v0", "v4")
	out := Resolve(all, Shuffle(freeOf(all), 12345), false)
	if out[0].ID != "v0" {
		t.Errorf("slot 0: got %s, want v0", out[0].ID)
	}
	if out[4].ID != "v4" {
		t.Errorf("slot 4: got %s, want v4", out[4].ID)
	}
	assertPermutation(t, all, out)
}

func TestResolve_CollisionDisplacesForward(t *testing.T) {
	// Two locked items both requesting slot 0: the earlier one in authored
	// order wins, the other is displaced forward, never dropped.
	all := []models.Video{
		{ID: "first", Position: 0, IsLocked: true},
		{ID: "second", Position: 0, IsLocked: true},
		{ID: "free1"},
		{ID: "free2"},
	}
	out := Resolve(all, Shuffle(freeOf(all), 1), false)
	if out[0].ID != "first" {
		t.Errorf("slot 0: got %s, want first", out[0].ID)
	}
	if out[1].ID != "second" {
		t.Errorf("slot 1: got %s, want second", out[1].ID)
	}
	assertPermutation(t, all, out)
}

func TestResolve_OverflowPositionClampsToLastSlot(t *testing.T) {
	all := []models.Video{
		{ID: "a"},
		{ID: "b"},
		{ID: "tail", Position: 99, IsLocked: true},
	}
	out := Resolve(all, Shuffle(freeOf(all), 3), false)
	if out[2].ID != "tail" {
		t.Errorf("slot 2: got %s, want tail", out[2].ID)
	}
	assertPermutation(t, all, out)
}

func TestResolve_NegativePositionFallsBackToSubsetIndex(t *testing.T) {
	// A corrupt negative position falls back to the item's index within the
	// locked subset: here it is the first locked item, so slot 0.
	all := []models.Video{
		{ID: "free1"},
		{ID: "corrupt", Position: -3, IsLocked: true},
		{ID: "free2"},
	}
	out := Resolve(all, Shuffle(freeOf(all), 9), false)
	if out[0].ID != "corrupt" {
		t.Errorf("slot 0: got %s, want corrupt", out[0].ID)
	}
	assertPermutation(t, all, out)
}

func TestResolve_NaNPositionFallsBack(t *testing.T) {
	all := []models.Video{
		{ID: "nan", Position: math.NaN(), IsLocked: true},
		{ID: "free1"},
	}
	out := Resolve(all, Shuffle(freeOf(all), 2), false)
	if out[0].ID != "nan" {
		t.Errorf("slot 0: got %s, want nan", out[0].ID)
	}
	assertPermutation(t, all, out)
}

func TestResolve_FractionalPositionFloors(t *testing.T) {
	all := []models.Video{
		{ID: "free1"},
		{ID: "frac", Position: 1.9, IsLocked: true},
		{ID: "free2"},
	}
	out := Resolve(all, Shuffle(freeOf(all), 5), false)
	if out[1].ID != "frac" {
		t.Errorf("slot 1: got %s, want frac", out[1].ID)
	}
	assertPermutation(t, all, out)
}

func TestResolve_AllLockedToSlotZeroWraps(t *testing.T) {
	// Pathological case pinning the forward-scan-then-wrap policy: every
	// item locked to position 0 fills slots 0,1,2,... in authored order.
	n := 5
	all := make([]models.Video, n)
	for i := range all {
		all[i] = models.Video{ID: fmt.Sprintf("v%d", i), Position: 0, IsLocked: true}
	}
	out := Resolve(all, nil, false)
	for i := range out {
		if out[i].ID != fmt.Sprintf("v%d", i) {
			t.Fatalf("slot %d: got %s, want v%d", i, out[i].ID, i)
		}
	}
}

func TestResolve_WrapScan(t *testing.T) {
	// Locked items at the tail force a wrap: two items want the last slot,
	// the displaced one scans forward, runs off the end, and wraps to the
	// first free slot at the front.
	all := []models.Video{
		{ID: "free1"},
		{ID: "lockA", Position: 2, IsLocked: true},
		{ID: "lockB", Position: 2, IsLocked: true},
	}
	out := Resolve(all, Shuffle(freeOf(all), 4), false)
	if out[2].ID != "lockA" {
		t.Errorf("slot 2: got %s, want lockA", out[2].ID)
	}
	// lockB found no free slot from 2 onward except none, wrapped to 0.
	if out[0].ID != "lockB" {
		t.Errorf("slot 0: got %s, want lockB", out[0].ID)
	}
	if out[1].ID != "free1" {
		t.Errorf("slot 1: got %s, want free1", out[1].ID)
	}
}

func TestResolve_MixMatrix(t *testing.T) {
	tests := []struct {
		name   string
		locked []string
	}{
		{"none locked", nil},
		{"one locked", []string{"v3"}},
		{"half locked", []string{"v0", "v2", "v4"}},
		{"all locked", []string{"v0", "v1", "v2", "v3", "v4", "v5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			all := makeVideos(6, tt.locked...)
			out := Resolve(all, Shuffle(freeOf(all), 77), false)
			assertPermutation(t, all, out)
		})
	}
}

func TestResolve_Empty(t *testing.T) {
	out := Resolve(nil, nil, false)
	if len(out) != 0 {
		t.Errorf("expected empty output, got %d items", len(out))
	}
}
