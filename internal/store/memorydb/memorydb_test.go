package memorydb

import (
	"errors"
	"testing"

	"github.com/ldbtools/ldbtest/internal/store"
	"github.com/ldbtools/ldbtest/internal/store/storetest"
)

func newTestDB(t *testing.T) store.KeyValueStore {
	t.Helper()

	db := New()
	t.Cleanup(func() { db.Close() })
	return db
}

func TestConformance(t *testing.T) {
	storetest.Run(t, newTestDB)
}

func TestClosedDatabase(t *testing.T) {
	db := New()
	if err := db.Put([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("Put error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close error = %v", err)
	}

	if err := db.Put([]byte("k"), []byte("v")); !errors.Is(err, errClosed) {
		t.Errorf("Put after Close error = %v, want errClosed", err)
	}
	if _, err := db.Get([]byte("k")); !errors.Is(err, errClosed) {
		t.Errorf("Get after Close error = %v, want errClosed", err)
	}
	if _, err := db.Has([]byte("k")); !errors.Is(err, errClosed) {
		t.Errorf("Has after Close error = %v, want errClosed", err)
	}
	if err := db.Delete([]byte("k")); !errors.Is(err, errClosed) {
		t.Errorf("Delete after Close error = %v, want errClosed", err)
	}
}

func TestValueCopies(t *testing.T) {
	db := newTestDB(t)

	value := []byte("original")
	if err := db.Put([]byte("k"), value); err != nil {
		t.Fatalf("Put error = %v", err)
	}
	value[0] = 'X' // caller mutation must not leak in

	got, err := db.Get([]byte("k"))
	if err != nil {
		t.Fatalf("Get error = %v", err)
	}
	if string(got) != "original" {
		t.Errorf("Get = %q, want %q", got, "original")
	}

	got[0] = 'Y' // returned slice mutation must not leak back
	again, err := db.Get([]byte("k"))
	if err != nil {
		t.Fatalf("Get error = %v", err)
	}
	if string(again) != "original" {
		t.Errorf("Get after mutation = %q, want %q", again, "original")
	}
}

func TestIteratorSnapshot(t *testing.T) {
	db := newTestDB(t)

	if err := db.Put([]byte("a"), []byte("v")); err != nil {
		t.Fatalf("Put error = %v", err)
	}

	it := db.NewIterator()
	defer it.Release()

	// Writes after iterator creation are invisible to it.
	if err := db.Put([]byte("b"), []byte("v")); err != nil {
		t.Fatalf("Put error = %v", err)
	}

	count := 0
	for it.Next() {
		count++
	}
	if count != 1 {
		t.Errorf("iterator saw %d keys, want 1 (snapshot)", count)
	}
}

func TestLen(t *testing.T) {
	db := New()
	defer db.Close()

	if db.Len() != 0 {
		t.Errorf("Len() = %d, want 0", db.Len())
	}
	if err := db.Put([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("Put error = %v", err)
	}
	if db.Len() != 1 {
		t.Errorf("Len() = %d, want 1", db.Len())
	}
}
