package sqlite

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/ldbtools/ldbtest/internal/store"
	"github.com/ldbtools/ldbtest/internal/store/storetest"
)

func newTestDB(t *testing.T) store.KeyValueStore {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestConformance(t *testing.T) {
	storetest.Run(t, newTestDB)
}

func TestReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	if err := db.Put([]byte("durable"), []byte("value")); err != nil {
		t.Fatalf("Put error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close error = %v", err)
	}

	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopening sqlite: %v", err)
	}
	defer db.Close()

	got, err := db.Get([]byte("durable"))
	if err != nil {
		t.Fatalf("Get after reopen error = %v", err)
	}
	if !bytes.Equal(got, []byte("value")) {
		t.Errorf("Get after reopen = %q, want %q", got, "value")
	}
}

func TestPrefixUpperBound(t *testing.T) {
	tests := []struct {
		name   string
		prefix []byte
		want   []byte
	}{
		{"simple", []byte("user:"), []byte("user;")},
		{"trailing 0xff", []byte{'a', 0xff}, []byte{'b'}},
		{"all 0xff", []byte{0xff, 0xff}, nil},
		{"empty", []byte{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := prefixUpperBound(tt.prefix)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("prefixUpperBound(%q) = %q, want %q", tt.prefix, got, tt.want)
			}
		})
	}
}
