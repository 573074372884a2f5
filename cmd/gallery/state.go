package main

import (
	"os"
	"path/filepath"
	"strings"
)

// The admin session token persists across invocations in the user config
// dir, taking the place the browser build kept in local storage.

func tokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	stateDir := filepath.Join(dir, "prompt-gallery")
	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(stateDir, "token"), nil
}

func saveToken(token string) error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0o600)
}

func loadToken() string {
	path, err := tokenPath()
	if err != nil {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func clearToken() error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
