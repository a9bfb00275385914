// Package main - persistence.go
//
// Persistence for clicker configuration and browser cookies.
// Uses JSON format for human-readable and easily editable storage.
//
// File Format:
// JSON with 2-space indentation. Example structure:
// {
//   "config": {
//     "start_hotkey": "s",
//     "toggle_hotkey": "p",
//     "replays": 10,
//     "replay_delay": 2,
//     "platform": "desktop",
//     ...
//   },
//   "cookies": []
// }
//
// Load Behavior:
//   - If the file exists: Load configuration and cookies
//   - If it doesn't: Use default configuration, empty cookies
//   - If it is corrupted: Log error, use defaults
//
// Automation state (paused flag, replay counter) is never persisted.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

const defaultDataFile = "config.json"

// SaveData writes configuration and cookies to path
func SaveData(path string, data *PersistentData) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	data.Config.mu.RLock()
	defer data.Config.mu.RUnlock()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	LogInfo("Data saved to %s", path)
	return nil
}

// LoadData loads configuration and cookies from path.
//
// A missing or undecodable file yields defaults and a nil error; only
// an unreadable file or an invalid configuration is an error.
func LoadData(path string) (*PersistentData, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		LogInfo("No existing data file, using default configuration")
		return NewPersistentData(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	data := NewPersistentData()
	if err := json.NewDecoder(file).Decode(data); err != nil {
		LogError("Failed to decode data file: %v", err)
		return NewPersistentData(), nil
	}
	if data.Config == nil {
		data.Config = NewConfig()
	}
	if err := data.Config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	LogInfo("Data loaded from %s", path)
	return data, nil
}
