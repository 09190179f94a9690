package utils

import (
	"fmt"
	"runtime"
	"strings"
)

// Architecture keys understood by the setup. These select which runtime
// redistributable is downloaded and which install content applies.
const (
	ArchX86   = "x86"
	ArchX64   = "x64"
	ArchArm64 = "arm64"
)

// SupportedArchitectures returns the architecture keys the setup knows
// about, in display order.
func SupportedArchitectures() []string {
	return []string{ArchX86, ArchX64, ArchArm64}
}

// ParseArchitecture normalizes a user-supplied architecture value (for
// example from a -targetarch flag) to one of the supported keys.
func ParseArchitecture(value string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "x86", "386", "i386":
		return ArchX86, nil
	case "x64", "amd64", "x86_64":
		return ArchX64, nil
	case "arm64", "aarch64":
		return ArchArm64, nil
	default:
		return "", fmt.Errorf("unsupported target architecture %q", value)
	}
}

// IsSupportedArchitecture reports whether arch is one of the known keys.
func IsSupportedArchitecture(arch string) bool {
	return arch == ArchX86 || arch == ArchX64 || arch == ArchArm64
}

// DetectArchitecture returns the architecture key matching the running
// process. Used as the default when no target architecture is requested.
func DetectArchitecture() string {
	switch runtime.GOARCH {
	case "amd64":
		return ArchX64
	case "arm64":
		return ArchArm64
	case "386":
		return ArchX86
	default:
		// Anything exotic falls back to x86, the lowest common denominator
		// the redistributable table knows about.
		return ArchX86
	}
}

// ArchitectureInfo returns human-readable architecture information for logs.
func ArchitectureInfo() string {
	return fmt.Sprintf("%s (%s/%s)", DetectArchitecture(), runtime.GOOS, runtime.GOARCH)
}
