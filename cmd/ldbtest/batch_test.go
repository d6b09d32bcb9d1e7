package main

import (
	"path/filepath"
	"testing"
)

func TestRunBatchMissingFileReturnsError(t *testing.T) {
	err := runBatch(batchCmd, []string{filepath.Join(t.TempDir(), "absent.txt")})
	if err == nil {
		t.Fatal("runBatch() error = nil, want open failure")
	}
}
