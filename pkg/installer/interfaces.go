package installer

import (
	"github.com/go-setupwizard/pkg/download"
	"github.com/go-setupwizard/pkg/utils"
)

// DownloadSurface is the download queue plus knowledge of where registered
// items land on disk.
type DownloadSurface interface {
	download.Queue
	LocalPath(name string) string
}

// Runner launches an executable and waits for it to exit. A non-nil error
// means the process could not be started at all; otherwise the exit code is
// returned as the process reported it.
type Runner interface {
	Run(path string, args ...string) (int, error)
}

// Presenter is the user-facing progress/error surface. The install protocol
// only needs a label line and one blocking error dialog; everything else is
// reported through the log.
type Presenter interface {
	ShowProgress(label string)
	HideProgress()
	ShowBlockingError(text string)
}

// Validator decides whether a downloaded artifact is genuine.
type Validator interface {
	Validate(path string) bool
}

// ArtifactCache serves and records previously downloaded artifacts.
type ArtifactCache interface {
	Fetch(name, destPath string) error
	Store(name, srcPath, sourceURL string) error
}

// ProcessRunner is the Runner backed by real process execution.
type ProcessRunner struct{}

func (ProcessRunner) Run(path string, args ...string) (int, error) {
	return utils.RunProcess(path, args...)
}
