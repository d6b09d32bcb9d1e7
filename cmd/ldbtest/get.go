package main

import (
	"errors"
	"fmt"

	"github.com/ldbtools/ldbtest/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get the value for a key",
	Long: `Get the value for a key. A missing key is reported but is not an
error; any other store failure is.

Example:
  ldbtest --db ./testdb get hello`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	db := mustOpenStore()
	defer db.Close()

	key := args[0]
	value, err := db.Get([]byte(key))
	if errors.Is(err, store.ErrNotFound) {
		if jsonOutput {
			return outputJSON(GetResponse{Key: key, Found: false})
		}
		fmt.Printf("Key not found: %s\n", key)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get failed: %w", err)
	}

	if jsonOutput {
		return outputJSON(GetResponse{Key: key, Value: string(value), Found: true})
	}
	fmt.Printf("%s -> %s\n", key, value)
	return nil
}
