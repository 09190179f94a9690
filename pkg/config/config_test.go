package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewConfigDefaultsAreValid(t *testing.T) {
	cfg := NewConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty app name", func(c *Config) { c.AppName = "" }},
		{"both modes set", func(c *Config) { c.Portable = true; c.SideBySide = true }},
		{"unknown arch", func(c *Config) { c.TargetArch = "mips" }},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }},
		{"mirrors for unknown arch", func(c *Config) { c.Mirrors = map[string][]string{"sparc": {"https://example.com"}} }},
		{"fs cache without dir", func(c *Config) { c.Cache = CacheConfig{Enabled: true, Type: "fs"} }},
		{"s3 cache without bucket", func(c *Config) { c.Cache = CacheConfig{Enabled: true, Type: "s3"} }},
		{"unknown cache type", func(c *Config) { c.Cache = CacheConfig{Enabled: true, Type: "ftp"} }},
		{"bad logger type", func(c *Config) { c.LoggerType = "chatty" }},
		{"mirror auth user without password", func(c *Config) { c.MirrorAuth = MirrorAuthConfig{User: "svc"} }},
		{"mirror auth password without user", func(c *Config) { c.MirrorAuth = MirrorAuthConfig{Password: "s3cret"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	yamlBody := `
app_name: Contoso Editor
app_version: 2.4.1
target_arch: arm64
side_by_side: true
max_retries: 5
mirrors:
  x64:
    - https://mirror.corp.example/vc_redist.x64.exe
mirror_auth:
  user: svc-setup
  password: hunter2
mirror_headers:
  X-Mirror-Token: abc123
cache:
  enabled: true
  type: fs
  dir: /var/cache/setupwizard
logger_type: production
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yamlBody), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := NewConfig()
	if err := cfg.LoadFromFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("loaded config should validate: %v", err)
	}

	if cfg.AppName != "Contoso Editor" {
		t.Errorf("AppName = %q", cfg.AppName)
	}
	if cfg.TargetArch != "arm64" {
		t.Errorf("TargetArch = %q", cfg.TargetArch)
	}
	if !cfg.SideBySide || cfg.Portable {
		t.Errorf("mode flags = portable:%t sidebyside:%t", cfg.Portable, cfg.SideBySide)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d", cfg.MaxRetries)
	}
	if got := cfg.Mirrors["x64"]; len(got) != 1 || got[0] != "https://mirror.corp.example/vc_redist.x64.exe" {
		t.Errorf("Mirrors[x64] = %v", got)
	}
	if cfg.MirrorAuth.User != "svc-setup" || cfg.MirrorAuth.Password != "hunter2" {
		t.Errorf("MirrorAuth = %+v", cfg.MirrorAuth)
	}
	if cfg.MirrorHeaders["X-Mirror-Token"] != "abc123" {
		t.Errorf("MirrorHeaders = %v", cfg.MirrorHeaders)
	}
	if !cfg.Cache.Enabled || cfg.Cache.Type != "fs" || cfg.Cache.Dir != "/var/cache/setupwizard" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := NewConfig()
	if err := cfg.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
