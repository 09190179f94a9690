package mode

import (
	"fmt"
	"path/filepath"
)

// InstallMode selects one of the named install variants. The mode affects
// where the application installs and what identity it registers under.
type InstallMode int

const (
	// Normal installs to the standard per-machine location under the plain
	// application identity.
	Normal InstallMode = iota
	// SideBySide appends a version-specific suffix to the identity so that
	// multiple versions of the application can coexist.
	SideBySide
	// Portable installs into a self-contained, relocatable directory and
	// registers nothing with the machine.
	Portable
)

func (m InstallMode) String() string {
	switch m {
	case Normal:
		return "normal"
	case SideBySide:
		return "sidebyside"
	case Portable:
		return "portable"
	default:
		return fmt.Sprintf("InstallMode(%d)", int(m))
	}
}

// FromFlags maps the /portable and /sidebyside style selection flags to an
// install mode. Requesting both is a caller error.
func FromFlags(portable, sideBySide bool) (InstallMode, error) {
	switch {
	case portable && sideBySide:
		return Normal, fmt.Errorf("portable and sidebyside modes are mutually exclusive")
	case portable:
		return Portable, nil
	case sideBySide:
		return SideBySide, nil
	default:
		return Normal, nil
	}
}

// Identity returns the application identity used for the install directory
// name, shortcut group, and uninstall registration.
func (m InstallMode) Identity(appName, appVersion string) string {
	if m == SideBySide {
		return fmt.Sprintf("%s %s", appName, appVersion)
	}
	return appName
}

// InstallDir returns the target install directory. baseDir is the standard
// per-machine programs location; portableBase is the self-contained root
// used in portable mode (typically next to the setup binary).
func (m InstallMode) InstallDir(baseDir, portableBase, appName, appVersion string) string {
	if m == Portable {
		return filepath.Join(portableBase, appName)
	}
	return filepath.Join(baseDir, m.Identity(appName, appVersion))
}

// RegistersWithSystem reports whether this mode records any per-machine
// state (uninstall entries, file associations). Portable installs must
// leave the machine untouched.
func (m InstallMode) RegistersWithSystem() bool {
	return m != Portable
}
