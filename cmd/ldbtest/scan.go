package main

import (
	"fmt"
	"strconv"

	"github.com/ldbtools/ldbtest/internal/store"
	"github.com/spf13/cobra"
)

// DefaultScanLimit caps a scan when no limit argument is given.
const DefaultScanLimit = 100

var scanPrefix string

func init() {
	scanCmd.Flags().StringVar(&scanPrefix, "prefix", "", "Scan only keys with this prefix (replaces start/end bounds)")
	rootCmd.AddCommand(scanCmd)
}

var scanCmd = &cobra.Command{
	Use:   "scan [start] [end] [limit]",
	Short: "Scan key-value pairs in ascending key order",
	Long: `Scan key-value pairs in ascending key order, starting at the start
key (or the first key) and stopping after the end key (inclusive,
lexicographic byte comparison) or after limit records, whichever comes
first. The default limit is 100; a limit of 0 yields no records.

Examples:
  ldbtest --db ./testdb scan
  ldbtest --db ./testdb scan user: user:9999 10
  ldbtest --db ./testdb scan --prefix user:`,
	Args: cobra.MaximumNArgs(3),
	RunE: runScan,
}

// scanBounds holds the parsed positional arguments of a scan.
type scanBounds struct {
	start string
	end   string
	limit int
}

// parseScanArgs interprets the optional [start] [end] [limit] positionals.
func parseScanArgs(args []string) (scanBounds, error) {
	b := scanBounds{limit: DefaultScanLimit}
	if len(args) > 0 {
		b.start = args[0]
	}
	if len(args) > 1 {
		b.end = args[1]
	}
	if len(args) > 2 {
		n, err := strconv.Atoi(args[2])
		if err != nil || n < 0 {
			return b, fmt.Errorf("invalid limit %q", args[2])
		}
		b.limit = n
	}
	return b, nil
}

func runScan(cmd *cobra.Command, args []string) error {
	bounds, err := parseScanArgs(args)
	if err != nil {
		return err
	}

	db := mustOpenStore()
	defer db.Close()

	var it store.Iterator
	switch {
	case scanPrefix != "":
		it = db.NewIteratorWithPrefix([]byte(scanPrefix))
	case bounds.start != "":
		it = db.NewIteratorWithStart([]byte(bounds.start))
	default:
		it = db.NewIterator()
	}
	defer it.Release()

	end := bounds.end
	if scanPrefix != "" {
		// Prefix scans bound themselves.
		end = ""
	}
	records, scanErr := collectScan(it, end, bounds.limit)

	if jsonOutput {
		if records == nil {
			records = []ScanRecord{}
		}
		if err := outputJSON(ScanResponse{Records: records, Count: len(records)}); err != nil {
			return err
		}
	} else {
		fmt.Println("Scanning database:")
		for _, rec := range records {
			fmt.Printf("  %s -> %s\n", rec.Key, rec.Value)
		}
		fmt.Printf("Total %d records scanned.\n", len(records))
	}

	if scanErr != nil {
		// Records already emitted stand; the failure is still terminal.
		return fmt.Errorf("iterator error: %w", scanErr)
	}
	return nil
}

// collectScan drains an iterator, stopping at the first key strictly
// greater than end (inclusive upper bound, lexicographic byte
// comparison; empty end means unbounded) or once limit records are
// collected, whichever comes first. Records gathered before an
// iterator failure are returned alongside the error.
func collectScan(it store.Iterator, end string, limit int) ([]ScanRecord, error) {
	var records []ScanRecord
	for len(records) < limit && it.Next() {
		key := string(it.Key())
		if end != "" && key > end {
			break
		}
		records = append(records, ScanRecord{Key: key, Value: string(it.Value())})
	}
	return records, it.Error()
}
