package utils

import (
	"errors"
	"fmt"
	"os/exec"
)

// RunProcess launches an executable, waits for it to exit, and returns its
// exit code. A non-zero exit code is not an error: err is non-nil only when
// the process could not be started (or waited on) at all, which callers
// treat differently from a process that ran and reported failure.
func RunProcess(path string, args ...string) (int, error) {
	cmd := exec.Command(path, args...)

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("failed to launch %s: %w", path, err)
}
