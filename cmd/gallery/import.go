package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Bulk-import prompts from a JSON file",
	Long: `Import reads a JSON array of {title, description, image_url?}
objects and inserts them in one batch. Image URLs are optional; entries
without one are created with no image.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		n, err := api.Import(cmd.Context(), payload)
		if err != nil {
			return fmt.Errorf("importing prompts: %w", err)
		}
		fmt.Printf("Imported %d prompts\n", n)
		return nil
	},
}
