// Package main provides the gallery CLI, a thin wrapper over the API client.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"prompt-gallery-go/internal/client"
)

var (
	// serverURL is set by the --server flag.
	serverURL string

	// api is the shared API client, initialized before every command.
	api *client.Client
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gallery",
	Short: "Gallery manages prompts in a running prompt-gallery server",
	Long: `Gallery is a command line client for the prompt gallery API.
It lists, shows, creates, edits, deletes and bulk-imports prompts, and
handles the admin login the mutation commands require.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		api = client.New(serverURL)
		if token := loadToken(); token != "" {
			api.SetToken(token)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "base URL of the gallery server")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}
