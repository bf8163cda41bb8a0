package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Credentials holds the bridge address and the application username issued
// during link-button pairing. They are persisted as JSON so pairing only has
// to happen once.
type Credentials struct {
	BridgeIP string `json:"bridge_ip"`
	Username string `json:"username"`
}

// LoadCredentials reads stored pairing credentials. A missing file is not an
// error: it returns (nil, nil) so callers can fall back to pairing.
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials %s: %w", path, err)
	}
	return &creds, nil
}

// SaveCredentials persists pairing credentials, creating the parent directory
// if needed. The file holds a bridge secret so it is written 0600.
func SaveCredentials(path string, creds *Credentials) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create credentials dir: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	return nil
}
