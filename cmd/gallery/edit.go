package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"prompt-gallery-go/internal/client"
)

var (
	editTitle       string
	editDescription string
	editImagePath   string
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit an existing prompt",
	Long: `Edit updates a prompt's title and description, and optionally
replaces its image. Without --image the stored image is kept as is.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVar(&editTitle, "title", "", "new title (required)")
	editCmd.Flags().StringVar(&editDescription, "description", "", "new description (required)")
	editCmd.Flags().StringVar(&editImagePath, "image", "", "path to a replacement image file")
	_ = editCmd.MarkFlagRequired("title")
	_ = editCmd.MarkFlagRequired("description")
}

func runEdit(cmd *cobra.Command, args []string) error {
	id := args[0]

	current, err := api.Get(cmd.Context(), id)
	if errors.Is(err, client.ErrNotFound) {
		return fmt.Errorf("no prompt with id %s", id)
	}
	if err != nil {
		return fmt.Errorf("fetching prompt: %w", err)
	}
	currentImageURL := ""
	if current.ImageURL != nil {
		currentImageURL = *current.ImageURL
	}

	var image io.Reader
	filename := ""
	if editImagePath != "" {
		f, err := os.Open(editImagePath)
		if err != nil {
			return fmt.Errorf("opening image: %w", err)
		}
		defer f.Close()
		image = f
		filename = filepath.Base(editImagePath)
	}

	p, err := api.Update(cmd.Context(), id, editTitle, editDescription, image, filename, currentImageURL)
	if err != nil {
		return fmt.Errorf("updating prompt: %w", err)
	}
	fmt.Printf("Updated prompt %s\n", p.ID)
	return nil
}
