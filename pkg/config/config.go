package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-setupwizard/pkg/utils"
)

// Config represents the main configuration for go-setupwizard
type Config struct {
	// Install identity
	AppName    string `yaml:"app_name"`
	AppVersion string `yaml:"app_version"`

	// Target selection
	TargetArch string `yaml:"target_arch"` // empty means detect from the running system

	// Install mode flags; mutually exclusive
	Portable   bool `yaml:"portable"`
	SideBySide bool `yaml:"side_by_side"`

	// Where downloads land before validation/install
	DownloadDir string `yaml:"download_dir"`

	// Retry settings for the mirror download protocol
	MaxRetries int `yaml:"max_retries"`

	// Extra corporate mirror URLs per architecture key. These are tried
	// before the vendor URL so air-gapped sites can serve the artifact
	// from their own infrastructure.
	Mirrors map[string][]string `yaml:"mirrors,omitempty"`

	// Credentials and extra headers sent with every download request, for
	// mirrors behind basic auth or token-checking proxies.
	MirrorAuth    MirrorAuthConfig  `yaml:"mirror_auth,omitempty"`
	MirrorHeaders map[string]string `yaml:"mirror_headers,omitempty"`

	// Artifact cache settings
	Cache CacheConfig `yaml:"cache"`

	// Logging
	LoggerType  string `yaml:"logger_type"` // "development" or "production"
	LogFilePath string `yaml:"log_file,omitempty"`

	// Execution settings
	DryRun bool `yaml:"dry_run"` // Don't actually launch the installer
}

// MirrorAuthConfig carries HTTP Basic Authentication credentials for
// corporate mirrors.
type MirrorAuthConfig struct {
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// CacheConfig configures the local/remote artifact cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Type    string `yaml:"type"`   // "fs" or "s3"
	Dir     string `yaml:"dir"`    // fs backend root
	Bucket  string `yaml:"bucket"` // s3 backend
	Prefix  string `yaml:"prefix,omitempty"`
	// Endpoint overrides the S3 endpoint, for S3-compatible object stores.
	Endpoint string `yaml:"endpoint,omitempty"`
}

// NewConfig creates a new Config with defaults
func NewConfig() *Config {
	return &Config{
		AppName:     "Setup",
		AppVersion:  "0.0.0",
		TargetArch:  "", // detect
		Portable:    false,
		SideBySide:  false,
		DownloadDir: defaultDownloadDir(),
		MaxRetries:  2,
		Mirrors:     map[string][]string{},
		Cache: CacheConfig{
			Enabled: false,
			Type:    "fs",
		},
		LoggerType:  "development",
		LogFilePath: "",
		DryRun:      false,
	}
}

// LoadFromFile overlays YAML configuration from configPath onto c.
func (c *Config) LoadFromFile(configPath string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.AppName == "" {
		return fmt.Errorf("app_name cannot be empty")
	}
	if c.Portable && c.SideBySide {
		return fmt.Errorf("portable and side_by_side modes are mutually exclusive")
	}
	if c.TargetArch != "" && !utils.IsSupportedArchitecture(c.TargetArch) {
		return fmt.Errorf("unsupported target_arch %q (supported: %s)",
			c.TargetArch, strings.Join(utils.SupportedArchitectures(), ", "))
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative")
	}
	for arch := range c.Mirrors {
		if !utils.IsSupportedArchitecture(arch) {
			return fmt.Errorf("mirrors configured for unknown architecture %q", arch)
		}
	}
	if (c.MirrorAuth.User == "") != (c.MirrorAuth.Password == "") {
		return fmt.Errorf("mirror_auth requires both user and password")
	}
	if c.Cache.Enabled {
		switch c.Cache.Type {
		case "fs":
			if c.Cache.Dir == "" {
				return fmt.Errorf("cache.dir is required for the fs cache backend")
			}
		case "s3":
			if c.Cache.Bucket == "" {
				return fmt.Errorf("cache.bucket is required for the s3 cache backend")
			}
		default:
			return fmt.Errorf("%s is not a known cache backend type", c.Cache.Type)
		}
	}
	if c.LoggerType != "development" && c.LoggerType != "production" {
		return fmt.Errorf("%s is not a valid logger type", c.LoggerType)
	}
	return nil
}

func defaultDownloadDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return os.TempDir()
	}
	return dir
}
