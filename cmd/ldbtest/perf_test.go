package main

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ldbtools/ldbtest/internal/perf"
)

func TestPerfPhaseConversion(t *testing.T) {
	got := perfPhase(perf.Result{Ops: 500, Duration: 250 * time.Millisecond})

	if got.Ops != 500 {
		t.Errorf("Ops = %d, want 500", got.Ops)
	}
	if got.DurationMS != 250 {
		t.Errorf("DurationMS = %d, want 250", got.DurationMS)
	}
	if got.OpsPerSec != 2000 {
		t.Errorf("OpsPerSec = %g, want 2000", got.OpsPerSec)
	}
}

// A response carrying only the write phase must not claim a read phase.
func TestPerfResponseOmitsMissingReadPhase(t *testing.T) {
	resp := PerfResponse{Write: perfPhase(perf.Result{Ops: 10, Duration: time.Second})}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if _, ok := decoded["write"]; !ok {
		t.Error("write phase missing from response")
	}
	if _, ok := decoded["read"]; ok {
		t.Error("read phase present in write-only response")
	}
}

func TestRunPerfRejectsInvalidCount(t *testing.T) {
	for _, arg := range []string{"0", "-5", "ten"} {
		if err := runPerf(perfCmd, []string{arg}); err == nil {
			t.Errorf("runPerf(%q) error = nil, want invalid count", arg)
		}
	}
}
