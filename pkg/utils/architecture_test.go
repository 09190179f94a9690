package utils

import (
	"runtime"
	"strings"
	"testing"
)

func TestParseArchitecture(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"x64", ArchX64, false},
		{"X64", ArchX64, false},
		{"amd64", ArchX64, false},
		{"x86_64", ArchX64, false},
		{"x86", ArchX86, false},
		{"386", ArchX86, false},
		{"arm64", ArchArm64, false},
		{"aarch64", ArchArm64, false},
		{" arm64 ", ArchArm64, false},
		{"mips", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseArchitecture(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseArchitecture(%q): expected error, got %q", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseArchitecture(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseArchitecture(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsSupportedArchitecture(t *testing.T) {
	for _, arch := range SupportedArchitectures() {
		if !IsSupportedArchitecture(arch) {
			t.Errorf("IsSupportedArchitecture(%q) = false, want true", arch)
		}
	}
	if IsSupportedArchitecture("mips") {
		t.Error("IsSupportedArchitecture(mips) = true, want false")
	}
}

func TestDetectArchitectureIsSupported(t *testing.T) {
	if arch := DetectArchitecture(); !IsSupportedArchitecture(arch) {
		t.Errorf("DetectArchitecture() = %q, not a supported key", arch)
	}
}

func TestArchitectureInfo(t *testing.T) {
	info := ArchitectureInfo()
	if !strings.Contains(info, DetectArchitecture()) {
		t.Errorf("ArchitectureInfo() = %q, missing the detected key", info)
	}
	if !strings.Contains(info, runtime.GOARCH) {
		t.Errorf("ArchitectureInfo() = %q, missing GOARCH", info)
	}
}
