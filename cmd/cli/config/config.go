package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const defaultAPIURL = "http://localhost:8080"

// APIURL returns the base URL for the AssetFlow API. Override with the
// ASSETFLOW_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("ASSETFLOW_API_URL"); v != "" {
		return v
	}
	return defaultAPIURL
}

func tokenPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".assetflow", "token"), nil
}

// SaveToken stores the JWT for subsequent CLI commands.
func SaveToken(token string) error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0o600)
}

// ReadToken returns the stored JWT, or an error prompting the user to log in.
func ReadToken() (string, error) {
	path, err := tokenPath()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("not logged in: run `assetflow login`")
	}
	return strings.TrimSpace(string(data)), nil
}

// ClearToken removes the stored JWT.
func ClearToken() error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
