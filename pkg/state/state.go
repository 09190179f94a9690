package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const StateFileName = ".wizard-state"

// InstallState is what one wizard run leaves behind for the next process
// to read. The host's restart-query hook runs after the wizard exits, so
// the restart flag has to survive the process.
type InstallState struct {
	RestartPending bool      `json:"restart_pending"`
	Architecture   string    `json:"architecture,omitempty"`
	CompletedAt    time.Time `json:"completed_at"`
}

func stateFilePath(dir string) string {
	return filepath.Join(dir, StateFileName)
}

// Save writes the install state under dir, replacing any previous state
func Save(dir string, st *InstallState) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode install state: %w", err)
	}
	if err := os.WriteFile(stateFilePath(dir), data, 0644); err != nil {
		return fmt.Errorf("failed to write install state: %w", err)
	}
	return nil
}

// Load reads the install state under dir. A missing or unreadable state
// file is an error; use RestartPending for the common yes/no question.
func Load(dir string) (*InstallState, error) {
	data, err := os.ReadFile(stateFilePath(dir))
	if err != nil {
		return nil, err
	}
	var st InstallState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to parse install state: %w", err)
	}
	return &st, nil
}

// RestartPending reports whether the last wizard run under dir requested a
// restart. No state at all means no restart.
func RestartPending(dir string) bool {
	st, err := Load(dir)
	if err != nil {
		return false
	}
	return st.RestartPending
}

// Clear removes the install state (after the host acted on it)
func Clear(dir string) error {
	err := os.Remove(stateFilePath(dir))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
