package verify

// Verifier is the boundary to the platform's code-signature and
// file-metadata services. Implementations live in the platform-specific
// files; tests substitute a fake.
type Verifier interface {
	// VerifySignature checks that the file at path carries a digital
	// signature whose certificate matches the expected publisher and
	// issuer names. checkRootOfTrust additionally requires the chain to
	// terminate in a platform-trusted root. The returned verdict is 0 on
	// pass; any other value is an opaque failure code suitable only for
	// logging.
	VerifySignature(path, expectedPublisher, expectedIssuer string, checkRootOfTrust bool) int

	// FileDescription returns the FileDescription string from the file's
	// version-information resource.
	FileDescription(path string) (string, error)
}
