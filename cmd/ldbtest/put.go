package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(putCmd)
}

var putCmd = &cobra.Command{
	Use:   "put <key> <value>",
	Short: "Store a key-value pair",
	Long: `Store a key-value pair, overwriting any existing value.

Example:
  ldbtest --db ./testdb put hello world`,
	Args: cobra.ExactArgs(2),
	RunE: runPut,
}

func runPut(cmd *cobra.Command, args []string) error {
	db := mustOpenStore()
	defer db.Close()

	key, value := args[0], args[1]
	if err := db.Put([]byte(key), []byte(value)); err != nil {
		return fmt.Errorf("put failed: %w", err)
	}

	if jsonOutput {
		return outputJSON(StatusResponse{Status: "ok", Key: key, Value: value})
	}
	fmt.Printf("Put successful: %s -> %s\n", key, value)
	return nil
}
