package perf

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ldbtools/ldbtest/internal/store/memorydb"
)

func TestKeyValueShapes(t *testing.T) {
	if got, want := Key(0), "perf_key_0"; got != want {
		t.Errorf("Key(0) = %q, want %q", got, want)
	}
	if got, want := Key(999), "perf_key_999"; got != want {
		t.Errorf("Key(999) = %q, want %q", got, want)
	}

	v := Value(7, 100)
	if !strings.HasPrefix(v, "perf_value_7_") {
		t.Errorf("Value(7, 100) = %q, want perf_value_7_ prefix", v)
	}
	if got, want := len(v), len("perf_value_7_")+100; got != want {
		t.Errorf("len(Value(7, 100)) = %d, want %d", got, want)
	}
}

func TestWriteThenReadPhases(t *testing.T) {
	db := memorydb.New()
	defer db.Close()

	const count = 200
	r := NewRunner(db, Options{Count: count, ValuePad: 10})
	ctx := context.Background()

	write, err := r.WritePhase(ctx)
	if err != nil {
		t.Fatalf("WritePhase error = %v", err)
	}
	if write.Ops != count {
		t.Errorf("write Ops = %d, want %d", write.Ops, count)
	}
	if db.Len() != count {
		t.Errorf("store holds %d keys after write phase, want %d", db.Len(), count)
	}

	read, err := r.ReadPhase(ctx)
	if err != nil {
		t.Fatalf("ReadPhase error = %v", err)
	}
	if read.Ops != count {
		t.Errorf("read Ops = %d, want %d", read.Ops, count)
	}
}

func TestReadPhaseFailsOnMissingKeys(t *testing.T) {
	db := memorydb.New()
	defer db.Close()

	r := NewRunner(db, Options{Count: 10})
	if _, err := r.ReadPhase(context.Background()); err == nil {
		t.Fatal("ReadPhase on empty store error = nil, want failure")
	} else if !strings.Contains(err.Error(), "read failed at 0") {
		t.Errorf("ReadPhase error = %q, want it to identify index 0", err)
	}
}

func TestDefaultsApplied(t *testing.T) {
	db := memorydb.New()
	defer db.Close()

	r := NewRunner(db, Options{})
	if r.opts.Count != DefaultCount {
		t.Errorf("Count = %d, want %d", r.opts.Count, DefaultCount)
	}
	if r.opts.ValuePad != DefaultValuePad {
		t.Errorf("ValuePad = %d, want %d", r.opts.ValuePad, DefaultValuePad)
	}
	if r.limiter != nil {
		t.Error("limiter set without a rate")
	}
}

func TestRateThrottles(t *testing.T) {
	db := memorydb.New()
	defer db.Close()

	// 5 ops at 100 ops/sec needs at least ~40ms after the initial token.
	r := NewRunner(db, Options{Count: 5, ValuePad: 1, Rate: 100})
	start := time.Now()
	if _, err := r.WritePhase(context.Background()); err != nil {
		t.Fatalf("WritePhase error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("throttled phase took %v, want >= 30ms", elapsed)
	}
}

func TestOpsPerSec(t *testing.T) {
	r := Result{Ops: 1000, Duration: 2 * time.Second}
	if got := r.OpsPerSec(); got != 500 {
		t.Errorf("OpsPerSec() = %v, want 500", got)
	}

	zero := Result{Ops: 10, Duration: 0}
	if got := zero.OpsPerSec(); got != 0 {
		t.Errorf("OpsPerSec() with zero duration = %v, want 0", got)
	}
}
