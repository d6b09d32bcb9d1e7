package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(deleteCmd)
}

var deleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Delete a key",
	Long: `Delete a key. Deleting an absent key succeeds; the operation is
idempotent.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	db := mustOpenStore()
	defer db.Close()

	key := args[0]
	if err := db.Delete([]byte(key)); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	if jsonOutput {
		return outputJSON(StatusResponse{Status: "ok", Key: key})
	}
	fmt.Printf("Delete successful: %s\n", key)
	return nil
}
