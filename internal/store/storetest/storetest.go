// Package storetest runs one conformance suite against every store
// backend: each backend package supplies a factory and gets identical
// coverage of the KeyValueStore contract.
package storetest

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ldbtools/ldbtest/internal/store"
)

// Factory returns a fresh, empty store for one subtest. Cleanup
// (including Close) is the factory's responsibility, typically via
// t.Cleanup.
type Factory func(t *testing.T) store.KeyValueStore

// Run exercises the KeyValueStore contract against the given backend.
func Run(t *testing.T, newStore Factory) {
	t.Run("PutGetRoundTrip", func(t *testing.T) {
		db := newStore(t)

		pairs := map[string]string{
			"hello":  "world",
			"empty":  "",
			"binary": "\x00\x01\xff",
		}
		for k, v := range pairs {
			if err := db.Put([]byte(k), []byte(v)); err != nil {
				t.Fatalf("Put(%q) error = %v", k, err)
			}
		}
		for k, v := range pairs {
			got, err := db.Get([]byte(k))
			if err != nil {
				t.Fatalf("Get(%q) error = %v", k, err)
			}
			if !bytes.Equal(got, []byte(v)) {
				t.Errorf("Get(%q) = %q, want %q", k, got, v)
			}
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		db := newStore(t)

		if err := db.Put([]byte("k"), []byte("v1")); err != nil {
			t.Fatalf("Put error = %v", err)
		}
		if err := db.Put([]byte("k"), []byte("v2")); err != nil {
			t.Fatalf("Put (overwrite) error = %v", err)
		}
		got, err := db.Get([]byte("k"))
		if err != nil {
			t.Fatalf("Get error = %v", err)
		}
		if string(got) != "v2" {
			t.Errorf("Get after overwrite = %q, want %q", got, "v2")
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		db := newStore(t)

		if _, err := db.Get([]byte("absent")); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Get(absent) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("DeleteThenGet", func(t *testing.T) {
		db := newStore(t)

		if err := db.Put([]byte("k"), []byte("v")); err != nil {
			t.Fatalf("Put error = %v", err)
		}
		if err := db.Delete([]byte("k")); err != nil {
			t.Fatalf("Delete error = %v", err)
		}
		if _, err := db.Get([]byte("k")); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Get after delete error = %v, want ErrNotFound", err)
		}
	})

	t.Run("DeleteAbsentIsIdempotent", func(t *testing.T) {
		db := newStore(t)

		if err := db.Delete([]byte("never-existed")); err != nil {
			t.Errorf("Delete(absent) error = %v, want nil", err)
		}
	})

	t.Run("Has", func(t *testing.T) {
		db := newStore(t)

		if err := db.Put([]byte("present"), []byte("v")); err != nil {
			t.Fatalf("Put error = %v", err)
		}

		tests := []struct {
			key  string
			want bool
		}{
			{"present", true},
			{"absent", false},
		}
		for _, tt := range tests {
			got, err := db.Has([]byte(tt.key))
			if err != nil {
				t.Fatalf("Has(%q) error = %v", tt.key, err)
			}
			if got != tt.want {
				t.Errorf("Has(%q) = %v, want %v", tt.key, got, tt.want)
			}
		}
	})

	t.Run("BatchWriteAllOrNothing", func(t *testing.T) {
		db := newStore(t)

		batch := db.NewBatch()
		keys := []string{"b1", "b2", "b3"}
		for _, k := range keys {
			if err := batch.Put([]byte(k), []byte("v-"+k)); err != nil {
				t.Fatalf("batch.Put(%q) error = %v", k, err)
			}
		}
		if batch.ValueSize() == 0 {
			t.Error("ValueSize() = 0 after staging writes")
		}

		// Staged writes must not be visible before Write.
		for _, k := range keys {
			if ok, _ := db.Has([]byte(k)); ok {
				t.Errorf("key %q visible before batch.Write", k)
			}
		}

		if err := batch.Write(); err != nil {
			t.Fatalf("batch.Write error = %v", err)
		}
		for _, k := range keys {
			got, err := db.Get([]byte(k))
			if err != nil {
				t.Fatalf("Get(%q) after batch error = %v", k, err)
			}
			if string(got) != "v-"+k {
				t.Errorf("Get(%q) = %q, want %q", k, got, "v-"+k)
			}
		}
	})

	t.Run("BatchDeleteAndReset", func(t *testing.T) {
		db := newStore(t)

		if err := db.Put([]byte("doomed"), []byte("v")); err != nil {
			t.Fatalf("Put error = %v", err)
		}

		batch := db.NewBatch()
		if err := batch.Delete([]byte("doomed")); err != nil {
			t.Fatalf("batch.Delete error = %v", err)
		}
		if err := batch.Write(); err != nil {
			t.Fatalf("batch.Write error = %v", err)
		}
		if _, err := db.Get([]byte("doomed")); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Get after batched delete error = %v, want ErrNotFound", err)
		}

		batch.Reset()
		if batch.ValueSize() != 0 {
			t.Errorf("ValueSize() after Reset = %d, want 0", batch.ValueSize())
		}
	})

	t.Run("BatchReplay", func(t *testing.T) {
		db := newStore(t)

		batch := db.NewBatch()
		if err := batch.Put([]byte("r1"), []byte("v1")); err != nil {
			t.Fatalf("batch.Put error = %v", err)
		}
		if err := batch.Delete([]byte("r2")); err != nil {
			t.Fatalf("batch.Delete error = %v", err)
		}

		rec := &recordingWriter{}
		if err := batch.Replay(rec); err != nil {
			t.Fatalf("batch.Replay error = %v", err)
		}
		if len(rec.puts) != 1 || rec.puts[0] != "r1" {
			t.Errorf("replayed puts = %v, want [r1]", rec.puts)
		}
		if len(rec.deletes) != 1 || rec.deletes[0] != "r2" {
			t.Errorf("replayed deletes = %v, want [r2]", rec.deletes)
		}
	})

	t.Run("IteratorAscendingOrder", func(t *testing.T) {
		db := newStore(t)

		// Insert out of order; iteration must come back sorted.
		for _, k := range []string{"delta", "alpha", "charlie", "bravo"} {
			if err := db.Put([]byte(k), []byte("v-"+k)); err != nil {
				t.Fatalf("Put(%q) error = %v", k, err)
			}
		}

		got := collectKeys(t, db.NewIterator())
		want := []string{"alpha", "bravo", "charlie", "delta"}
		assertKeys(t, got, want)
	})

	t.Run("IteratorWithStart", func(t *testing.T) {
		db := newStore(t)

		for _, k := range []string{"a", "b", "c", "d", "e"} {
			if err := db.Put([]byte(k), []byte("v")); err != nil {
				t.Fatalf("Put(%q) error = %v", k, err)
			}
		}

		got := collectKeys(t, db.NewIteratorWithStart([]byte("c")))
		assertKeys(t, got, []string{"c", "d", "e"})
	})

	t.Run("IteratorWithPrefix", func(t *testing.T) {
		db := newStore(t)

		for _, k := range []string{"user:1", "user:2", "user:3", "account:1", "zz"} {
			if err := db.Put([]byte(k), []byte("v")); err != nil {
				t.Fatalf("Put(%q) error = %v", k, err)
			}
		}

		got := collectKeys(t, db.NewIteratorWithPrefix([]byte("user:")))
		assertKeys(t, got, []string{"user:1", "user:2", "user:3"})
	})

	t.Run("IteratorEmptyStore", func(t *testing.T) {
		db := newStore(t)

		it := db.NewIterator()
		defer it.Release()
		if it.Next() {
			t.Errorf("Next() on empty store = true, key %q", it.Key())
		}
		if err := it.Error(); err != nil {
			t.Errorf("Error() on empty store = %v", err)
		}
	})

	t.Run("StatDefaults", func(t *testing.T) {
		db := newStore(t)

		if err := db.Put([]byte("k"), []byte("v")); err != nil {
			t.Fatalf("Put error = %v", err)
		}
		for _, prop := range db.DefaultStatProperties() {
			if _, err := db.Stat(prop); err != nil {
				t.Errorf("Stat(%q) error = %v", prop, err)
			}
		}
		if _, err := db.Stat("no-such-property"); !errors.Is(err, store.ErrUnknownProperty) {
			t.Errorf("Stat(unknown) error = %v, want ErrUnknownProperty", err)
		}
	})

	t.Run("Compact", func(t *testing.T) {
		db := newStore(t)

		for _, k := range []string{"a", "b", "c"} {
			if err := db.Put([]byte(k), []byte("v")); err != nil {
				t.Fatalf("Put(%q) error = %v", k, err)
			}
		}
		if err := db.Compact(nil, nil); err != nil {
			t.Errorf("Compact error = %v", err)
		}
		// Data survives compaction.
		if _, err := db.Get([]byte("b")); err != nil {
			t.Errorf("Get after Compact error = %v", err)
		}
	})
}

// collectKeys drains an iterator and releases it.
func collectKeys(t *testing.T, it store.Iterator) []string {
	t.Helper()
	defer it.Release()

	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	if err := it.Error(); err != nil {
		t.Fatalf("iterator error = %v", err)
	}
	return keys
}

func assertKeys(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("keys = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("keys[%d] = %q, want %q (full: %v)", i, got[i], want[i], got)
		}
	}
}

// recordingWriter captures replayed operations.
type recordingWriter struct {
	puts    []string
	deletes []string
}

func (w *recordingWriter) Put(key, value []byte) error {
	w.puts = append(w.puts, string(key))
	return nil
}

func (w *recordingWriter) Delete(key []byte) error {
	w.deletes = append(w.deletes, string(key))
	return nil
}
