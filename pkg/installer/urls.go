package installer

import (
	"fmt"

	"github.com/go-setupwizard/pkg/utils"
)

// Vendor-hosted download URLs for the Visual C++ runtime redistributable,
// one per supported architecture. These are permalink redirectors, so the
// artifact behind them can change upstream; that is why no digest is pinned
// for the download.
var redistURLs = map[string]string{
	utils.ArchArm64: "https://aka.ms/vs/17/release/vc_redist.arm64.exe",
	utils.ArchX64:   "https://aka.ms/vs/17/release/vc_redist.x64.exe",
	utils.ArchX86:   "https://aka.ms/vs/17/release/vc_redist.x86.exe",
}

// ResolveRedistURL returns the vendor download URL for the given
// architecture key, or the empty string for an unsupported key.
func ResolveRedistURL(arch string) string {
	return redistURLs[arch]
}

// RedistFileName returns the local file name the redistributable for arch
// is stored under.
func RedistFileName(arch string) string {
	return fmt.Sprintf("vc_redist.%s.exe", arch)
}
