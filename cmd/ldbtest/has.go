package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(hasCmd)
}

var hasCmd = &cobra.Command{
	Use:   "has <key>",
	Short: "Report whether a key exists",
	Args:  cobra.ExactArgs(1),
	RunE:  runHas,
}

func runHas(cmd *cobra.Command, args []string) error {
	db := mustOpenStore()
	defer db.Close()

	key := args[0]
	exists, err := db.Has([]byte(key))
	if err != nil {
		return fmt.Errorf("has failed: %w", err)
	}

	if jsonOutput {
		return outputJSON(HasResponse{Key: key, Exists: exists})
	}
	fmt.Printf("%v\n", exists)
	return nil
}
