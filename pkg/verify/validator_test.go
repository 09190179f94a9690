package verify

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-setupwizard/pkg/utils"
)

// fakeVerifier scripts verdicts and records which checks ran.
type fakeVerifier struct {
	verdict         int
	description     string
	descriptionErr  error
	signatureChecks int
	metadataChecks  int
}

func (f *fakeVerifier) VerifySignature(path, expectedPublisher, expectedIssuer string, checkRootOfTrust bool) int {
	f.signatureChecks++
	return f.verdict
}

func (f *fakeVerifier) FileDescription(path string) (string, error) {
	f.metadataChecks++
	return f.description, f.descriptionErr
}

func writeArtifact(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vc_redist.x64.exe")
	if err := os.WriteFile(path, []byte("MZ fake"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidateMissingFileSkipsSignatureCheck(t *testing.T) {
	f := &fakeVerifier{verdict: 0, description: "Microsoft Visual C++ 2015-2022 Redistributable (x64)"}
	v := NewValidator(f, utils.NopLogger())

	if v.Validate(filepath.Join(t.TempDir(), "missing.exe")) {
		t.Fatal("expected validation failure for missing file")
	}
	if f.signatureChecks != 0 {
		t.Errorf("signature checks = %d, want 0 (must fail fast on existence)", f.signatureChecks)
	}
}

func TestValidateBadSignature(t *testing.T) {
	f := &fakeVerifier{verdict: -2146762487, description: "Microsoft Visual C++ 2015-2022 Redistributable (x64)"}
	v := NewValidator(f, utils.NopLogger())

	if v.Validate(writeArtifact(t)) {
		t.Fatal("expected validation failure for bad signature")
	}
	if f.metadataChecks != 0 {
		t.Errorf("metadata checks = %d, want 0 (signature failure must short-circuit)", f.metadataChecks)
	}
}

func TestValidateWrongDescription(t *testing.T) {
	f := &fakeVerifier{verdict: 0, description: "Totally Different Product"}
	v := NewValidator(f, utils.NopLogger())

	if v.Validate(writeArtifact(t)) {
		t.Fatal("expected validation failure for mismatched description")
	}
}

func TestValidateDescriptionError(t *testing.T) {
	f := &fakeVerifier{verdict: 0, descriptionErr: fmt.Errorf("file changed while reading")}
	v := NewValidator(f, utils.NopLogger())

	if v.Validate(writeArtifact(t)) {
		t.Fatal("expected validation failure when metadata cannot be read")
	}
}

func TestValidatePasses(t *testing.T) {
	f := &fakeVerifier{verdict: 0, description: "Microsoft Visual C++ 2015-2022 Redistributable (arm64) - 14.40.33810"}
	v := NewValidator(f, utils.NopLogger())

	if !v.Validate(writeArtifact(t)) {
		t.Fatal("expected validation to pass")
	}
	if f.signatureChecks != 1 || f.metadataChecks != 1 {
		t.Errorf("checks = sig:%d meta:%d, want 1 each", f.signatureChecks, f.metadataChecks)
	}
}

func TestMatchWildcard(t *testing.T) {
	tests := []struct {
		pattern string
		s       string
		want    bool
	}{
		{"Microsoft Visual C++*Redistributable*", "Microsoft Visual C++ 2015-2022 Redistributable (x64) - 14.40", true},
		{"Microsoft Visual C++*Redistributable*", "microsoft visual c++ 2015-2022 redistributable", true},
		{"Microsoft Visual C++*Redistributable*", "Microsoft Visual C++ Runtime", false},
		{"*", "", true},
		{"", "", true},
		{"", "x", false},
		{"a?c", "abc", true},
		{"a?c", "ac", false},
		{"abc", "abc", true},
	}

	for _, tt := range tests {
		if got := MatchWildcard(tt.pattern, tt.s); got != tt.want {
			t.Errorf("MatchWildcard(%q, %q) = %t, want %t", tt.pattern, tt.s, got, tt.want)
		}
	}
}
