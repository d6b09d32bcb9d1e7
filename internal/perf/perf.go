// Package perf implements the sequential write/read benchmark behind
// the perf command.
package perf

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ldbtools/ldbtest/internal/store"
	"golang.org/x/time/rate"
)

const (
	// DefaultCount is the number of operations per phase.
	DefaultCount = 10000

	// DefaultValuePad is the number of filler bytes in each value.
	DefaultValuePad = 100
)

// Options configure a benchmark run.
type Options struct {
	Count    int     // operations per phase
	ValuePad int     // filler bytes appended to each value
	Rate     float64 // ops/sec throttle, 0 = unlimited
}

// Result reports one timed phase.
type Result struct {
	Ops      int
	Duration time.Duration
}

// OpsPerSec returns the phase throughput.
func (r Result) OpsPerSec() float64 {
	if r.Duration <= 0 {
		return 0
	}
	return float64(r.Ops) / r.Duration.Seconds()
}

// Key returns the i-th benchmark key.
func Key(i int) string {
	return fmt.Sprintf("perf_key_%d", i)
}

// Value returns the i-th benchmark value with pad filler bytes.
func Value(i, pad int) string {
	return fmt.Sprintf("perf_value_%d_%s", i, strings.Repeat("x", pad))
}

// Runner drives timed phases against a single store handle. Phases are
// strictly sequential and block the calling goroutine.
type Runner struct {
	db      store.KeyValueStore
	opts    Options
	limiter *rate.Limiter
}

// NewRunner creates a runner, filling in defaults for unset options.
func NewRunner(db store.KeyValueStore, opts Options) *Runner {
	if opts.Count <= 0 {
		opts.Count = DefaultCount
	}
	if opts.ValuePad <= 0 {
		opts.ValuePad = DefaultValuePad
	}
	r := &Runner{db: db, opts: opts}
	if opts.Rate > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(opts.Rate), 1)
	}
	return r
}

// WritePhase performs Count sequential puts of synthetic keys and
// values. A failed put aborts the phase immediately, identifying the
// failing index.
func (r *Runner) WritePhase(ctx context.Context) (Result, error) {
	start := time.Now()
	for i := 0; i < r.opts.Count; i++ {
		if err := r.wait(ctx); err != nil {
			return Result{}, err
		}
		if err := r.db.Put([]byte(Key(i)), []byte(Value(i, r.opts.ValuePad))); err != nil {
			return Result{}, fmt.Errorf("write failed at %d: %w", i, err)
		}
	}
	return Result{Ops: r.opts.Count, Duration: time.Since(start)}, nil
}

// ReadPhase performs Count sequential point reads of the keys the write
// phase produced. A failed or missing read aborts the phase immediately.
func (r *Runner) ReadPhase(ctx context.Context) (Result, error) {
	start := time.Now()
	for i := 0; i < r.opts.Count; i++ {
		if err := r.wait(ctx); err != nil {
			return Result{}, err
		}
		if _, err := r.db.Get([]byte(Key(i))); err != nil {
			return Result{}, fmt.Errorf("read failed at %d: %w", i, err)
		}
	}
	return Result{Ops: r.opts.Count, Duration: time.Since(start)}, nil
}

func (r *Runner) wait(ctx context.Context) error {
	if r.limiter == nil {
		return nil
	}
	return r.limiter.Wait(ctx)
}
