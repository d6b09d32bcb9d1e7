package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ldbtools/ldbtest/internal/batchfile"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(batchCmd)
}

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Apply key-value pairs from a file as one atomic write",
	Long: `Apply key-value pairs from a file as one atomic write. The file
holds one "key value" pair per line, whitespace-delimited, so keys and
values cannot themselves contain whitespace. Blank lines are skipped;
any other malformed line rejects the whole batch and nothing is
written. Pass "-" to read from stdin.

Example:
  ldbtest --db ./testdb batch pairs.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	source := args[0]

	var r io.Reader
	if source == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(source)
		if err != nil {
			return fmt.Errorf("opening batch file: %w", err)
		}
		defer f.Close()
		r = f
	}

	db := mustOpenStore()
	defer db.Close()

	n, err := batchfile.Load(db, r)
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	if jsonOutput {
		return outputJSON(BatchResponse{Status: "ok", Entries: n, Source: source})
	}
	fmt.Printf("Batch write successful: %d entries\n", n)
	return nil
}
