// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

package session

import (
	"context"
	"errors"
	"testing"

	badger "github.com/dgraph-io/badger/v4"
)

func TestStorageKeyFormat(t *testing.T) {
	key := Key{ExperimentID: "7a1d3c9e", ParticipantID: "alice"}
	if got := key.StorageKey(); got != "timer_7a1d3c9e_alice" {
		t.Errorf("StorageKey() = %q, want %q", got, "timer_7a1d3c9e_alice")
	}
}

// storeUnderTest exercises the StateStore contract shared by both backends.
func storeUnderTest(t *testing.T, store StateStore) {
	t.Helper()
	ctx := context.Background()
	key := Key{ExperimentID: "exp-a", ParticipantID: "p-1"}

	if _, err := store.Get(ctx, key); !errors.Is(err, ErrStateNotFound) {
		t.Errorf("Get on empty store = %v, want ErrStateNotFound", err)
	}
	if err := store.Remove(ctx, key); err != nil {
		t.Errorf("Remove of absent key = %v, want nil", err)
	}

	want := TimerState{StartedAtEpochMs: 1_700_000_000_000}
	if err := store.Set(ctx, key, want); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.StartedAtEpochMs != want.StartedAtEpochMs {
		t.Errorf("Get = %+v, want %+v", got, want)
	}

	other := Key{ExperimentID: "exp-b", ParticipantID: "p-2"}
	if err := store.Set(ctx, other, TimerState{StartedAtEpochMs: 42_000}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("List returned %d entries, want 2", len(all))
	}
	if all[key].StartedAtEpochMs != want.StartedAtEpochMs {
		t.Errorf("List[%v] = %+v, want %+v", key, all[key], want)
	}

	if err := store.Remove(ctx, key); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := store.Get(ctx, key); !errors.Is(err, ErrStateNotFound) {
		t.Errorf("Get after Remove = %v, want ErrStateNotFound", err)
	}
}

func TestMemoryStoreContract(t *testing.T) {
	storeUnderTest(t, NewMemoryStore())
}

func TestMemoryStoreCorruptPayload(t *testing.T) {
	store := NewMemoryStore()
	key := Key{ExperimentID: "exp-a", ParticipantID: "p-1"}

	store.SetRaw(key, []byte("{broken"))
	if _, err := store.Get(context.Background(), key); !errors.Is(err, ErrStateCorrupt) {
		t.Errorf("Get with broken JSON = %v, want ErrStateCorrupt", err)
	}

	store.SetRaw(key, []byte(`{"startedAtEpochMs":0}`))
	if _, err := store.Get(context.Background(), key); !errors.Is(err, ErrStateCorrupt) {
		t.Errorf("Get with zero epoch = %v, want ErrStateCorrupt", err)
	}
}

func openTestBadger(t *testing.T) *badger.DB {
	t.Helper()
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("badger.Open: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("db.Close: %v", err)
		}
	})
	return db
}

func TestBadgerStoreContract(t *testing.T) {
	storeUnderTest(t, NewBadgerStore(openTestBadger(t)))
}

func TestBadgerStoreCorruptPayload(t *testing.T) {
	db := openTestBadger(t)
	store := NewBadgerStore(db)
	key := Key{ExperimentID: "exp-a", ParticipantID: "p-1"}

	err := db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key.StorageKey()), []byte("{broken"))
	})
	if err != nil {
		t.Fatalf("raw Set: %v", err)
	}

	if _, err := store.Get(context.Background(), key); !errors.Is(err, ErrStateCorrupt) {
		t.Errorf("Get with broken JSON = %v, want ErrStateCorrupt", err)
	}

	// List skips the corrupt entry rather than failing the sweep.
	all, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("List returned %d entries, want corrupt entry skipped", len(all))
	}
}
