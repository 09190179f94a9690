package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-setupwizard/pkg/config"
	"github.com/go-setupwizard/pkg/state"
	"github.com/go-setupwizard/pkg/utils"
	"github.com/go-setupwizard/pkg/wizard"
)

func main() {
	// Normalize boolean flags so forms like "--portable false" are treated as "--portable=false"
	os.Args = utils.NormalizeBooleanFlags(os.Args, map[string]struct{}{
		"portable":      {},
		"sidebyside":    {},
		"dry-run":       {},
		"seed-cache":    {},
		"query-restart": {},
	})

	// Create a new config with defaults
	cfg := config.NewConfig()

	// Define command-line flags - use empty/false defaults so we can detect if they were set
	configPath := flag.String("config", "", "Path to a YAML config file")
	appName := flag.String("appname", "", "Application name used for the install identity")
	appVersion := flag.String("appversion", "", "Application version used for the install identity")
	targetArch := flag.String("targetarch", "", "Target architecture: x86, x64, arm64 (default: detect)")
	portable := flag.Bool("portable", false, "Portable install mode (default: false)")
	sideBySide := flag.Bool("sidebyside", false, "Side-by-side install mode (default: false). Mutually exclusive with --portable")
	downloadDir := flag.String("downloaddir", "", "Directory downloads land in before validation")
	maxRetries := flag.Int("max-retries", 2, "How many times the full mirror list may be retried")
	loggerType := flag.String("logger-type", "", "Logger type: development or production")
	logFilePath := flag.String("log-file", "", "Force logs to also go to this file (in addition to console)")
	dryRun := flag.Bool("dry-run", false, "Dry run - don't actually launch the installer (default: false)")
	seedCache := flag.Bool("seed-cache", false, "Download and validate the redistributable, publish it to the cache, install nothing")
	queryRestart := flag.Bool("query-restart", false, "Report whether the previous run requested a restart, then exit")

	// Parse the command-line arguments
	flag.Parse()

	// Load the config file first so explicit flags can override it
	if *configPath != "" {
		if err := cfg.LoadFromFile(*configPath); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}

	// Create a map to track which flags were explicitly set
	flagsSet := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		flagsSet[f.Name] = true
	})

	// Only override file config with command line flags that were explicitly set
	if flagsSet["appname"] {
		cfg.AppName = *appName
	}
	if flagsSet["appversion"] {
		cfg.AppVersion = *appVersion
	}
	if flagsSet["targetarch"] {
		cfg.TargetArch = *targetArch
	}
	if flagsSet["portable"] {
		cfg.Portable = *portable
	}
	if flagsSet["sidebyside"] {
		cfg.SideBySide = *sideBySide
	}
	if flagsSet["downloaddir"] {
		cfg.DownloadDir = *downloadDir
	}
	if flagsSet["max-retries"] {
		cfg.MaxRetries = *maxRetries
	}
	if flagsSet["logger-type"] {
		cfg.LoggerType = *loggerType
	}
	if flagsSet["log-file"] {
		cfg.LogFilePath = *logFilePath
	}
	if flagsSet["dry-run"] {
		cfg.DryRun = *dryRun
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// The restart-query hook runs in a fresh process after the wizard has
	// exited, so it only reads the persisted state.
	if *queryRestart {
		if state.RestartPending(cfg.DownloadDir) {
			fmt.Println("restart-pending")
			os.Exit(2)
		}
		fmt.Println("no-restart")
		return
	}

	// Create logger, optionally teeing to a file
	logger, err := utils.NewLogger(cfg.LoggerType)
	if cfg.LogFilePath != "" {
		logger, err = utils.NewLoggerWithFile(cfg.LoggerType, cfg.LogFilePath)
	}
	if err != nil {
		fmt.Printf("Error: failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Debugf("Host architecture: %s", utils.ArchitectureInfo())

	presenter := wizard.NewConsolePresenter()

	opts, err := wizard.BuildOptions(cfg, nil)
	if err != nil {
		logger.Errorf("Failed to resolve install options: %v", err)
		os.Exit(1)
	}
	logger.Infof("Target: %s, mode: %s, identity: %q",
		opts.Architecture, opts.Mode, opts.Mode.Identity(cfg.AppName, cfg.AppVersion))

	session, err := wizard.NewSession(cfg, opts, presenter, logger)
	if err != nil {
		logger.Errorf("Failed to start wizard session: %v", err)
		os.Exit(1)
	}

	// Ctrl-C aborts the in-flight download; the retry protocol reports it
	// as a user abort rather than a failure.
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-interrupts
		logger.Infof("Interrupt received, aborting")
		session.Abort()
	}()

	if *seedCache {
		if err := session.SeedCache(); err != nil {
			logger.Errorf("Cache seeding failed: %v", err)
			os.Exit(1)
		}
		logger.Infof("Cache seeding complete")
		return
	}

	ok, err := session.InstallRuntime()
	if err != nil {
		logger.Errorf("Install failed to start: %v", err)
		os.Exit(1)
	}
	if !ok {
		logger.Errorf("Runtime installation failed")
		os.Exit(1)
	}
	if err := state.Save(cfg.DownloadDir, &state.InstallState{
		RestartPending: session.NeedsRestart(),
		Architecture:   session.Architecture(),
		CompletedAt:    time.Now(),
	}); err != nil {
		logger.Warnf("Failed to persist install state: %v", err)
	}

	if session.NeedsRestart() {
		logger.Infof("Runtime installed; a restart is required to finish")
	} else {
		logger.Infof("Runtime installed")
	}
}
