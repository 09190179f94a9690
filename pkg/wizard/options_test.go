package wizard

import (
	"testing"

	"github.com/go-setupwizard/pkg/config"
	"github.com/go-setupwizard/pkg/mode"
	"github.com/go-setupwizard/pkg/utils"
)

func TestBuildOptionsDefaults(t *testing.T) {
	cfg := config.NewConfig()
	opts, err := BuildOptions(cfg, nil)
	if err != nil {
		t.Fatalf("BuildOptions: %v", err)
	}
	if opts.Mode != mode.Normal {
		t.Errorf("default mode = %v, want Normal", opts.Mode)
	}
	if len(opts.Architectures) != len(utils.SupportedArchitectures()) {
		t.Errorf("nil predicate should keep all architectures, got %d", len(opts.Architectures))
	}
	if !utils.IsSupportedArchitecture(opts.Architecture) {
		t.Errorf("resolved architecture %q is not supported", opts.Architecture)
	}
}

func TestBuildOptionsModeConflict(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Portable = true
	cfg.SideBySide = true
	if _, err := BuildOptions(cfg, nil); err == nil {
		t.Fatal("portable + side-by-side must be rejected")
	}
}

func TestBuildOptionsPredicateFiltering(t *testing.T) {
	cfg := config.NewConfig()
	onlyX86 := func(arch string) bool { return arch == utils.ArchX86 }

	opts, err := BuildOptions(cfg, onlyX86)
	if err != nil {
		t.Fatalf("BuildOptions: %v", err)
	}
	if len(opts.Architectures) != 1 || opts.Architectures[0].Key != utils.ArchX86 {
		t.Fatalf("choices = %v, want only x86", opts.Architectures)
	}
	// The detected architecture is filtered out, so the selection falls
	// back to what the machine can run.
	if opts.Architecture != utils.ArchX86 {
		t.Errorf("resolved architecture = %q, want x86", opts.Architecture)
	}
}

func TestBuildOptionsExplicitTargetMustBeRunnable(t *testing.T) {
	cfg := config.NewConfig()
	cfg.TargetArch = utils.ArchArm64
	nothingRunnable := func(arch string) bool { return arch == utils.ArchX64 }

	if _, err := BuildOptions(cfg, nothingRunnable); err == nil {
		t.Fatal("explicit target outside the runnable set must be rejected")
	}
}

func TestBuildOptionsExplicitTargetAliases(t *testing.T) {
	cfg := config.NewConfig()
	cfg.TargetArch = "amd64"

	opts, err := BuildOptions(cfg, nil)
	if err != nil {
		t.Fatalf("BuildOptions: %v", err)
	}
	if opts.Architecture != utils.ArchX64 {
		t.Errorf("amd64 should resolve to x64, got %q", opts.Architecture)
	}
}

func TestBuildOptionsNoRunnableArchitecture(t *testing.T) {
	cfg := config.NewConfig()
	none := func(string) bool { return false }
	if _, err := BuildOptions(cfg, none); err == nil {
		t.Fatal("an empty runnable set must be rejected")
	}
}

func TestBuildOptionsDetectedFlag(t *testing.T) {
	cfg := config.NewConfig()
	opts, err := BuildOptions(cfg, nil)
	if err != nil {
		t.Fatalf("BuildOptions: %v", err)
	}
	detected := 0
	for _, c := range opts.Architectures {
		if c.Detected {
			detected++
		}
		if c.Label == "" {
			t.Errorf("architecture %q has no label", c.Key)
		}
	}
	if detected > 1 {
		t.Errorf("at most one choice may be marked detected, got %d", detected)
	}
}
