package installer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/go-setupwizard/pkg/download"
)

// Installer process exit codes with defined meaning. Anything else is an
// unknown failure.
const (
	exitCodeSuccess        = 0
	exitCodeRebootRequired = 3010
)

// RedistInstaller downloads, validates and installs the runtime
// redistributable for one architecture. Each step gates the next; the
// caller gets a single boolean and reads RestartRequired afterwards.
type RedistInstaller struct {
	surface   DownloadSurface
	retryer   *download.Retryer
	validator Validator
	runner    Runner
	presenter Presenter
	logger    *zap.SugaredLogger

	cache        ArtifactCache
	extraMirrors map[string][]string
	maxRetries   int
	dryRun       bool

	restartRequired bool
}

// NewRedistInstaller creates a new redistributable installer
func NewRedistInstaller(surface DownloadSurface, prompter download.RetryPrompter, validator Validator, runner Runner, presenter Presenter, logger *zap.SugaredLogger) *RedistInstaller {
	return &RedistInstaller{
		surface:   surface,
		retryer:   download.NewRetryer(surface, prompter, logger),
		validator: validator,
		runner:    runner,
		presenter: presenter,
		logger:    logger,
	}
}

// SetCache attaches an artifact cache. A cache hit satisfies the download
// step without network; validated downloads are stored back.
func (ri *RedistInstaller) SetCache(cache ArtifactCache) {
	ri.cache = cache
}

// SetExtraMirrors adds corporate mirror URLs per architecture key, tried
// before the vendor URL.
func (ri *RedistInstaller) SetExtraMirrors(mirrors map[string][]string) {
	ri.extraMirrors = mirrors
}

// SetMaxRetries sets how many times the user may retry the full mirror list
func (ri *RedistInstaller) SetMaxRetries(maxRetries int) {
	ri.maxRetries = maxRetries
}

// SetDryRun stops short of actually launching the installer process
func (ri *RedistInstaller) SetDryRun(dryRun bool) {
	ri.dryRun = dryRun
}

// RestartRequired reports whether an install signalled that the machine
// must reboot before the runtime is fully usable. Set at most once, never
// cleared.
func (ri *RedistInstaller) RestartRequired() bool {
	return ri.restartRequired
}

// DownloadAndInstall runs the full protocol for arch. The labels feed the
// progress surface during the verification and install steps. It returns
// true on success, including the deferred-restart case; every failure path
// has already been logged, and only a process that could not launch at all
// raises a blocking error dialog.
func (ri *RedistInstaller) DownloadAndInstall(arch, verifyingLabel, installingLabel, waitingLabel string) bool {
	localPath, ok := ri.fetch(arch)
	if !ok {
		return false
	}

	// The artifact only survives if the whole protocol does.
	tracker := download.NewCleanupTracker()
	tracker.TrackFile(localPath)
	defer func() {
		if err := tracker.Cleanup(); err != nil {
			ri.logger.Warnf("failed to clean up %s: %v", localPath, err)
		}
	}()

	ri.presenter.ShowProgress(verifyingLabel)
	defer ri.presenter.HideProgress()

	if !ri.validator.Validate(localPath) {
		// Cause already logged by the validator.
		return false
	}

	if ri.cache != nil {
		if err := ri.cache.Store(RedistFileName(arch), localPath, ResolveRedistURL(arch)); err != nil {
			// Cache trouble never fails the install.
			ri.logger.Warnf("failed to cache %s: %v", localPath, err)
		}
	}

	if !ri.install(localPath, installingLabel, waitingLabel) {
		return false
	}
	tracker.MarkSuccess(localPath)
	return true
}

// fetch produces a validated-ready local artifact for arch, from the cache
// when possible, otherwise through the mirror download protocol.
func (ri *RedistInstaller) fetch(arch string) (string, bool) {
	url := ResolveRedistURL(arch)
	if url == "" {
		ri.logger.Errorf("no redistributable download available for architecture %q", arch)
		return "", false
	}

	localName := RedistFileName(arch)
	localPath := ri.surface.LocalPath(localName)

	if ri.cache != nil {
		if err := ri.cache.Fetch(localName, localPath); err == nil {
			ri.logger.Infof("using cached redistributable for %s", arch)
			return localPath, true
		} else {
			ri.logger.Debugf("cache miss for %s: %v", localName, err)
		}
	}

	mirrors := append(append([]string{}, ri.extraMirrors[arch]...), url)

	ri.surface.Show()
	// The artifact is unpinned upstream, so no digest is registered; the
	// signature check vouches for integrity instead.
	outcome, err := ri.retryer.Attempt(mirrors, localName, "", ri.maxRetries)
	ri.surface.Hide()

	if err != nil {
		ri.logger.Errorf("download protocol error for %s: %v", arch, err)
		return "", false
	}
	if outcome != download.Success {
		// Aborts and exhaustion are both terminal here; there is no retry
		// layer above this one.
		ri.logger.Errorf("redistributable download for %s did not complete: %s", arch, outcome)
		return "", false
	}

	return localPath, true
}

func (ri *RedistInstaller) install(localPath, installingLabel, waitingLabel string) bool {
	ri.presenter.ShowProgress(installingLabel)

	if ri.dryRun {
		ri.logger.Infof("[DRY RUN] would launch %s /install /quiet /norestart", localPath)
		return true
	}

	ri.presenter.ShowProgress(waitingLabel)
	exitCode, err := ri.runner.Run(localPath, "/install", "/quiet", "/norestart")
	if err != nil {
		// Likely an environment fault (corrupted temp dir, antivirus); the
		// user needs to know immediately rather than via a silent failure.
		ri.logger.Errorf("runtime installer failed to launch: %v", err)
		ri.presenter.ShowBlockingError(fmt.Sprintf("Unable to start the runtime installer:\n%v", err))
		return false
	}

	switch exitCode {
	case exitCodeSuccess:
		ri.logger.Infof("runtime installer finished successfully")
		return true
	case exitCodeRebootRequired:
		ri.restartRequired = true
		ri.logger.Infof("runtime installer finished successfully, restart required")
		return true
	default:
		// Left to the caller's own flow to surface.
		ri.logger.Errorf("runtime installer exited with code %d", exitCode)
		return false
	}
}
