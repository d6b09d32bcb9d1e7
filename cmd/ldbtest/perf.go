package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ldbtools/ldbtest/internal/perf"
	"github.com/spf13/cobra"
)

var (
	perfRate      float64
	perfValueSize int
)

func init() {
	perfCmd.Flags().Float64Var(&perfRate, "rate", 0, "Throttle to this many operations per second (0 = unlimited)")
	perfCmd.Flags().IntVar(&perfValueSize, "value-size", perf.DefaultValuePad, "Filler bytes appended to each value")
	rootCmd.AddCommand(perfCmd)
}

var perfCmd = &cobra.Command{
	Use:   "perf [count]",
	Short: "Run a sequential write then read benchmark",
	Long: `Run a sequential write then read benchmark: count writes of keys
perf_key_0..count-1, then count point reads of the same keys, timing
each phase. The default count is 10000. A failure mid-phase aborts
immediately and skips the remaining phase.

Example:
  ldbtest --db ./testdb perf 1000`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPerf,
}

func runPerf(cmd *cobra.Command, args []string) error {
	count := perf.DefaultCount
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid count %q", args[0])
		}
		count = n
	}

	db := mustOpenStore()
	defer db.Close()

	runner := perf.NewRunner(db, perf.Options{
		Count:    count,
		ValuePad: perfValueSize,
		Rate:     perfRate,
	})
	ctx := context.Background()

	if !jsonOutput {
		fmt.Printf("Starting performance test with %d operations...\n", count)
	}

	write, err := runner.WritePhase(ctx)
	if err != nil {
		return fmt.Errorf("performance test %w", err)
	}
	if !jsonOutput {
		fmt.Println("Performance test results:")
		printPerfPhase("Write", write)
	}

	read, err := runner.ReadPhase(ctx)
	if err != nil {
		// The write phase completed; its results are still reported.
		if jsonOutput {
			outputJSON(PerfResponse{Write: perfPhase(write)})
		}
		return fmt.Errorf("performance test %w", err)
	}

	if jsonOutput {
		return outputJSON(PerfResponse{Write: perfPhase(write), Read: perfPhase(read)})
	}
	printPerfPhase("Read", read)
	return nil
}

func perfPhase(r perf.Result) *PerfPhase {
	return &PerfPhase{
		Ops:        r.Ops,
		DurationMS: r.Duration.Milliseconds(),
		OpsPerSec:  r.OpsPerSec(),
	}
}

func printPerfPhase(name string, r perf.Result) {
	fmt.Printf("  %s: %d ops in %dms (%.0f ops/sec)\n", name, r.Ops, r.Duration.Milliseconds(), r.OpsPerSec())
}
