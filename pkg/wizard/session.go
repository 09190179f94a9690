package wizard

import (
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/go-setupwizard/pkg/cache"
	"github.com/go-setupwizard/pkg/config"
	"github.com/go-setupwizard/pkg/download"
	"github.com/go-setupwizard/pkg/installer"
	"github.com/go-setupwizard/pkg/verify"
)

// ErrBusy is returned when an install or seed operation is requested while
// another one is still in flight. The download surface and the restart flag
// are per-session singletons, so at most one operation may use them at a
// time.
var ErrBusy = errors.New("another wizard operation is already in progress")

// Session owns the state of one wizard run: the resolved options, the
// download surface, the installer protocol and the restart flag. It is the
// only writer of that state; callers go through its methods.
type Session struct {
	cfg       *config.Config
	opts      *Options
	presenter Presenter
	logger    *zap.SugaredLogger

	surface   installer.DownloadSurface
	retryer   *download.Retryer
	validator installer.Validator
	redist    *installer.RedistInstaller
	store     cache.Storer
	abort     func()

	inFlight atomic.Bool
}

// NewSession wires a session from validated configuration and resolved
// options.
func NewSession(cfg *config.Config, opts *Options, presenter Presenter, logger *zap.SugaredLogger) (*Session, error) {
	client := download.NewClient(cfg.DownloadDir, logger)
	if cfg.MirrorAuth.User != "" {
		client.SetBasicAuth(cfg.MirrorAuth.User, cfg.MirrorAuth.Password)
	}
	for name, value := range cfg.MirrorHeaders {
		client.SetHeader(name, value)
	}
	validator := verify.NewValidator(verify.NewPlatformVerifier(), logger)

	redist := installer.NewRedistInstaller(client, presenter, validator, installer.ProcessRunner{}, presenter, logger)
	redist.SetExtraMirrors(cfg.Mirrors)
	redist.SetMaxRetries(cfg.MaxRetries)
	redist.SetDryRun(cfg.DryRun)

	s := &Session{
		cfg:       cfg,
		opts:      opts,
		presenter: presenter,
		logger:    logger,
		surface:   client,
		retryer:   download.NewRetryer(client, presenter, logger),
		validator: validator,
		redist:    redist,
		abort:     client.Abort,
	}

	if cfg.Cache.Enabled {
		store, err := cache.New(cfg.Cache, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to set up the artifact cache: %w", err)
		}
		s.store = store
		redist.SetCache(store)
	}

	return s, nil
}

// Architecture returns the resolved target architecture
func (s *Session) Architecture() string {
	return s.opts.Architecture
}

// Identity returns the app identity for the selected install mode
func (s *Session) Identity() string {
	return s.opts.Mode.Identity(s.cfg.AppName, s.cfg.AppVersion)
}

// InstallRuntime runs the runtime redistributable protocol for the
// session's architecture. It returns ErrBusy if another operation holds the
// session; otherwise the boolean is the protocol verdict and the error is
// nil.
func (s *Session) InstallRuntime() (bool, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return false, ErrBusy
	}
	defer s.inFlight.Store(false)

	s.logger.Infof("installing the C++ runtime redistributable for %s (%s)",
		s.opts.Architecture, s.opts.Mode)

	ok := s.redist.DownloadAndInstall(
		s.opts.Architecture,
		"Verifying downloaded files...",
		"Installing the C++ runtime redistributable...",
		"Waiting for the installation to finish...",
	)
	return ok, nil
}

// SeedCache downloads and validates the redistributable for the session's
// architecture and publishes it into the configured cache backend without
// installing anything. Site admins use this to pre-stage corporate mirrors.
func (s *Session) SeedCache() error {
	if !s.inFlight.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer s.inFlight.Store(false)

	if s.store == nil {
		return fmt.Errorf("no cache backend configured; enable one in the config file")
	}

	arch := s.opts.Architecture
	url := installer.ResolveRedistURL(arch)
	if url == "" {
		return fmt.Errorf("no redistributable download available for architecture %q", arch)
	}
	name := installer.RedistFileName(arch)
	mirrors := append(append([]string{}, s.cfg.Mirrors[arch]...), url)

	s.surface.Show()
	outcome, err := s.retryer.Attempt(mirrors, name, "", s.cfg.MaxRetries)
	s.surface.Hide()
	if err != nil {
		return err
	}
	if outcome != download.Success {
		return fmt.Errorf("redistributable download did not complete: %s", outcome)
	}

	localPath := s.surface.LocalPath(name)
	tracker := download.NewCleanupTracker()
	tracker.TrackFile(localPath)
	defer func() {
		if cleanupErr := tracker.Cleanup(); cleanupErr != nil {
			s.logger.Warnf("failed to clean up %s: %v", localPath, cleanupErr)
		}
	}()

	if !s.validator.Validate(localPath) {
		return fmt.Errorf("downloaded artifact failed validation")
	}

	if err := s.store.Store(name, localPath, url); err != nil {
		return fmt.Errorf("failed to publish %s to the cache: %w", name, err)
	}
	tracker.MarkSuccess(localPath)
	s.logger.Infof("published %s to the artifact cache", name)
	return nil
}

// NeedsRestart reports whether any install in this session requested a
// machine restart. The host's restart-query hook reads this after the
// wizard finishes.
func (s *Session) NeedsRestart() bool {
	return s.redist.RestartRequired()
}

// Abort cancels any in-flight download. Safe to call from a signal handler
// goroutine.
func (s *Session) Abort() {
	s.abort()
}
