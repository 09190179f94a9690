//go:build !windows

package verify

import "fmt"

type platformVerifier struct{}

// NewPlatformVerifier returns a verifier that fails closed: signature and
// metadata inspection of PE executables is only available on Windows.
func NewPlatformVerifier() Verifier {
	return platformVerifier{}
}

func (platformVerifier) VerifySignature(path, expectedPublisher, expectedIssuer string, checkRootOfTrust bool) int {
	return -1
}

func (platformVerifier) FileDescription(path string) (string, error) {
	return "", fmt.Errorf("file metadata inspection is not supported on this platform")
}
