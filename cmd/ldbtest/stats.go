package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ldbtools/ldbtest/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats [property...]",
	Short: "Print store introspection properties",
	Long: `Print store introspection properties. With no arguments the
backend's default property set is reported. Properties the backend
does not expose are skipped, not errors.

The leveldb backend passes leveldb.* property names straight through
to the engine (leveldb.stats, leveldb.sstables, ...) and maps "size"
to the approximate on-disk size.`,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	db := mustOpenStore()
	defer db.Close()

	props := args
	if len(props) == 0 {
		props = db.DefaultStatProperties()
	}

	results := make(map[string]string)
	for _, p := range props {
		value, err := db.Stat(p)
		if errors.Is(err, store.ErrUnknownProperty) {
			continue
		}
		if err != nil {
			return fmt.Errorf("reading property %q: %w", p, err)
		}
		results[p] = value
	}

	if jsonOutput {
		return outputJSON(StatsResponse{Properties: results})
	}

	if len(results) == 0 {
		fmt.Println("No statistics available.")
		return nil
	}
	for _, p := range props {
		value, ok := results[p]
		if !ok {
			continue
		}
		if strings.Contains(value, "\n") {
			fmt.Printf("%s:\n%s\n", p, value)
		} else {
			fmt.Printf("%s: %s\n", p, value)
		}
	}
	return nil
}
