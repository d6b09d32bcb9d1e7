package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(compactCmd)
}

var compactCmd = &cobra.Command{
	Use:   "compact [start] [end]",
	Short: "Trigger manual compaction of a key range",
	Long: `Trigger manual compaction of the key range [start, end). With no
arguments the whole key space is compacted. The sqlite backend
compacts the whole file regardless of range; the memory backend is a
no-op.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runCompact,
}

func runCompact(cmd *cobra.Command, args []string) error {
	var start, limit []byte
	if len(args) > 0 {
		start = []byte(args[0])
	}
	if len(args) > 1 {
		limit = []byte(args[1])
	}

	db := mustOpenStore()
	defer db.Close()

	if err := db.Compact(start, limit); err != nil {
		return fmt.Errorf("compact failed: %w", err)
	}

	if jsonOutput {
		return outputJSON(StatusResponse{Status: "ok"})
	}
	fmt.Println("Compaction complete.")
	return nil
}
