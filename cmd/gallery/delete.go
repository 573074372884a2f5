package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a prompt and its stored image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := api.Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("deleting prompt: %w", err)
		}
		fmt.Println("Deleted")
		return nil
	},
}
