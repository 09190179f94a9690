package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	st := &InstallState{
		RestartPending: true,
		Architecture:   "x64",
		CompletedAt:    time.Now().Truncate(time.Second),
	}
	if err := Save(dir, st); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !loaded.RestartPending {
		t.Error("restart flag lost on roundtrip")
	}
	if loaded.Architecture != "x64" {
		t.Errorf("architecture = %q, want x64", loaded.Architecture)
	}
	if !loaded.CompletedAt.Equal(st.CompletedAt) {
		t.Errorf("completed at = %v, want %v", loaded.CompletedAt, st.CompletedAt)
	}
}

func TestSaveCreatesStateDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	if err := Save(dir, &InstallState{}); err != nil {
		t.Fatalf("Save into missing directory: %v", err)
	}
}

func TestRestartPending(t *testing.T) {
	dir := t.TempDir()

	if RestartPending(dir) {
		t.Error("no state must mean no restart")
	}

	if err := Save(dir, &InstallState{RestartPending: false}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if RestartPending(dir) {
		t.Error("restart_pending=false must report false")
	}

	if err := Save(dir, &InstallState{RestartPending: true}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !RestartPending(dir) {
		t.Error("restart_pending=true must report true")
	}
}

func TestRestartPendingCorruptState(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, StateFileName), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if RestartPending(dir) {
		t.Error("corrupt state must fail closed")
	}
}

func TestClear(t *testing.T) {
	dir := t.TempDir()
	if err := Save(dir, &InstallState{RestartPending: true}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := Clear(dir); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if RestartPending(dir) {
		t.Error("cleared state must not report a pending restart")
	}
	// Clearing twice is fine.
	if err := Clear(dir); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
}
