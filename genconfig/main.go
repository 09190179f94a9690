package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-setupwizard/pkg/cache"
	"github.com/go-setupwizard/pkg/config"
	"github.com/go-setupwizard/pkg/installer"
	"github.com/go-setupwizard/pkg/utils"
)

// MirrorList is a custom type that implements flag.Value for the repeatable
// --mirror flag.
type MirrorList map[string][]string

// String implements the flag.Value interface
func (m MirrorList) String() string {
	return fmt.Sprintf("%v", map[string][]string(m))
}

// Set implements the flag.Value interface
func (m MirrorList) Set(value string) error {
	arch, url, ok := strings.Cut(value, "=")
	if !ok {
		return fmt.Errorf("mirror must be in arch=url form, got %q", value)
	}
	if !utils.IsSupportedArchitecture(arch) {
		return fmt.Errorf("unknown architecture %q (supported: %s)",
			arch, strings.Join(utils.SupportedArchitectures(), ", "))
	}
	if !strings.HasPrefix(url, "https://") && !strings.HasPrefix(url, "http://") {
		return fmt.Errorf("mirror URL %q must be http(s)", url)
	}
	m[arch] = append(m[arch], url)
	return nil
}

// SeedList collects repeatable --seed arch=path flags
type SeedList map[string]string

func (s SeedList) String() string {
	return fmt.Sprintf("%v", map[string]string(s))
}

func (s SeedList) Set(value string) error {
	arch, path, ok := strings.Cut(value, "=")
	if !ok {
		return fmt.Errorf("seed must be in arch=path form, got %q", value)
	}
	if !utils.IsSupportedArchitecture(arch) {
		return fmt.Errorf("unknown architecture %q (supported: %s)",
			arch, strings.Join(utils.SupportedArchitectures(), ", "))
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("seed artifact %s: %w", path, err)
	}
	s[arch] = path
	return nil
}

// genconfig writes a starter YAML config for go-setupwizard and can
// pre-stage a filesystem cache from locally downloaded redistributables,
// for sites that serve artifacts from their own infrastructure.
func main() {
	output := flag.String("output", "config.yaml", "Where to write the generated config")
	appName := flag.String("appname", "Setup", "Application name")
	appVersion := flag.String("appversion", "0.0.0", "Application version")
	targetArch := flag.String("targetarch", "", "Target architecture: x86, x64, arm64 (default: detect at install time)")
	cacheDir := flag.String("cache-dir", "", "Enable the filesystem cache backend rooted here")
	mirrors := MirrorList{}
	flag.Var(mirrors, "mirror", "Corporate mirror in arch=url form (repeatable)")
	seeds := SeedList{}
	flag.Var(seeds, "seed", "Local artifact to pre-stage into the cache, in arch=path form (repeatable; requires --cache-dir)")
	flag.Parse()

	cfg := config.NewConfig()
	cfg.AppName = *appName
	cfg.AppVersion = *appVersion
	cfg.TargetArch = *targetArch
	cfg.Mirrors = mirrors
	if *cacheDir != "" {
		cfg.Cache.Enabled = true
		cfg.Cache.Type = "fs"
		cfg.Cache.Dir = *cacheDir
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Generated config would be invalid: %v", err)
	}

	if len(seeds) > 0 {
		if *cacheDir == "" {
			log.Fatalf("--seed requires --cache-dir")
		}
		logger, err := utils.NewLogger(cfg.LoggerType)
		if err != nil {
			log.Fatalf("Failed to create logger: %v", err)
		}
		store := cache.NewFSStorer(*cacheDir, logger)
		for arch, path := range seeds {
			name := installer.RedistFileName(arch)
			if err := store.Store(name, path, installer.ResolveRedistURL(arch)); err != nil {
				log.Fatalf("Failed to pre-stage %s: %v", name, err)
			}
			fmt.Printf("Pre-staged %s from %s\n", name, path)
		}
	}

	marshalled, err := yaml.Marshal(cfg)
	if err != nil {
		log.Fatalf("Failed to encode config: %v", err)
	}
	if err := os.WriteFile(*output, marshalled, 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", *output, err)
	}
	fmt.Printf("Wrote %s\n", *output)
}
