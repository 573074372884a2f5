package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"prompt-gallery-go/internal/client"
)

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a single prompt",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	p, err := api.Get(cmd.Context(), args[0])
	if errors.Is(err, client.ErrNotFound) {
		return fmt.Errorf("no prompt with id %s", args[0])
	}
	if err != nil {
		return fmt.Errorf("fetching prompt: %w", err)
	}

	fmt.Printf("ID:          %s\n", p.ID)
	fmt.Printf("Title:       %s\n", p.Title)
	fmt.Printf("Description: %s\n", p.Description)
	if p.ImageURL != nil {
		fmt.Printf("Image:       %s\n", *p.ImageURL)
	}
	fmt.Printf("Created:     %s\n", p.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Updated:     %s\n", p.UpdatedAt.Format("2006-01-02 15:04:05"))
	return nil
}
