package main

import (
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate as admin",
	Long:  `Login prompts for the admin password and stores the session token for later commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}

		token, err := api.Login(cmd.Context(), string(password))
		if err != nil {
			return fmt.Errorf("logging in: %w", err)
		}
		if err := saveToken(token); err != nil {
			return fmt.Errorf("saving session token: %w", err)
		}
		fmt.Println("Logged in")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the admin session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if api.Token() != "" {
			if err := api.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("logging out: %w", err)
			}
		}
		if err := clearToken(); err != nil {
			return fmt.Errorf("clearing session token: %w", err)
		}
		fmt.Println("Logged out")
		return nil
	},
}
