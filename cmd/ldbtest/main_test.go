package main

import (
	"path/filepath"
	"testing"

	"github.com/ldbtools/ldbtest/internal/config"
)

func TestOpenStoreBackendSelection(t *testing.T) {
	tmp := t.TempDir()

	tests := []struct {
		name    string
		cfg     config.Config
		wantErr bool
	}{
		{"default is leveldb", config.Config{DBPath: filepath.Join(tmp, "l1")}, false},
		{"explicit leveldb", config.Config{DBPath: filepath.Join(tmp, "l2"), Backend: "leveldb"}, false},
		{"sqlite", config.Config{DBPath: filepath.Join(tmp, "kv.db"), Backend: "sqlite"}, false},
		{"memory", config.Config{Backend: "memory"}, false},
		{"unknown", config.Config{DBPath: filepath.Join(tmp, "x"), Backend: "rocksdb"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := openStore(&tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("openStore() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer db.Close()

			// The handle must be usable regardless of backend.
			if err := db.Put([]byte("k"), []byte("v")); err != nil {
				t.Errorf("Put on fresh store error = %v", err)
			}
		})
	}
}
