package wizard

import (
	"fmt"

	"github.com/go-setupwizard/pkg/config"
	"github.com/go-setupwizard/pkg/mode"
	"github.com/go-setupwizard/pkg/utils"
)

// ArchPredicate reports whether the running machine can execute binaries
// built for arch. The capability check itself lives with the host; the
// wizard only consumes the verdict.
type ArchPredicate func(arch string) bool

// ArchChoice is one selectable entry in the advanced-options architecture
// list.
type ArchChoice struct {
	Key      string
	Label    string
	Detected bool
}

// Options is the result of the advanced-options composition: the resolved
// architecture and install mode, plus the architecture choices that were
// available.
type Options struct {
	Architecture  string
	Mode          mode.InstallMode
	Architectures []ArchChoice
}

var archLabels = map[string]string{
	utils.ArchX86:   "32-bit (x86)",
	utils.ArchX64:   "64-bit (x64)",
	utils.ArchArm64: "ARM 64-bit (arm64)",
}

// BuildOptions resolves the advanced options from the configuration. The
// architecture list is filtered through runnable (nil means everything is
// runnable); an explicitly configured target architecture must survive the
// filter, otherwise the detected architecture is used.
func BuildOptions(cfg *config.Config, runnable ArchPredicate) (*Options, error) {
	installMode, err := mode.FromFlags(cfg.Portable, cfg.SideBySide)
	if err != nil {
		return nil, err
	}

	detected := utils.DetectArchitecture()

	var choices []ArchChoice
	for _, arch := range utils.SupportedArchitectures() {
		if runnable != nil && !runnable(arch) {
			continue
		}
		choices = append(choices, ArchChoice{
			Key:      arch,
			Label:    archLabels[arch],
			Detected: arch == detected,
		})
	}
	if len(choices) == 0 {
		return nil, fmt.Errorf("no supported architecture can run on this machine")
	}

	selected := cfg.TargetArch
	if selected != "" {
		parsed, err := utils.ParseArchitecture(selected)
		if err != nil {
			return nil, err
		}
		selected = parsed
		if !containsChoice(choices, selected) {
			return nil, fmt.Errorf("target architecture %s cannot run on this machine", selected)
		}
	} else {
		selected = detected
		if !containsChoice(choices, selected) {
			// Fall back to whatever the machine can actually run.
			selected = choices[0].Key
		}
	}

	return &Options{
		Architecture:  selected,
		Mode:          installMode,
		Architectures: choices,
	}, nil
}

func containsChoice(choices []ArchChoice, arch string) bool {
	for _, c := range choices {
		if c.Key == arch {
			return true
		}
	}
	return false
}
