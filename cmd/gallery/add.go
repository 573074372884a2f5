package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	addTitle       string
	addDescription string
	addImagePath   string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a new prompt",
	Long: `Add creates a prompt from a title, a description and an image file.
The image is resized and re-encoded server-side before storage.

Example:
  gallery add --title "Neon city" --description "a rainy neon street" --image city.png`,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addTitle, "title", "", "prompt title (required)")
	addCmd.Flags().StringVar(&addDescription, "description", "", "prompt description (required)")
	addCmd.Flags().StringVar(&addImagePath, "image", "", "path to the image file (required)")
	_ = addCmd.MarkFlagRequired("title")
	_ = addCmd.MarkFlagRequired("description")
	_ = addCmd.MarkFlagRequired("image")
}

func runAdd(cmd *cobra.Command, args []string) error {
	f, err := os.Open(addImagePath)
	if err != nil {
		return fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	p, err := api.Create(cmd.Context(), addTitle, addDescription, f, filepath.Base(addImagePath))
	if err != nil {
		return fmt.Errorf("creating prompt: %w", err)
	}
	fmt.Printf("Created prompt %s\n", p.ID)
	return nil
}
