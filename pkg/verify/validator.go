package verify

import (
	"os"
	"strings"

	"go.uber.org/zap"
)

// Validator decides whether a downloaded artifact is the genuine
// redistributable. All checks must pass; the first failure stops the rest.
// Callers only get a boolean: the specific cause lands in the log, because
// no caller branches on "why" - they always stop and let the user retry.
type Validator struct {
	verifier           Verifier
	logger             *zap.SugaredLogger
	expectedPublisher  string
	expectedIssuer     string
	descriptionPattern string
}

// NewValidator creates a validator with the identity expectations for the
// Visual C++ runtime redistributable.
func NewValidator(verifier Verifier, logger *zap.SugaredLogger) *Validator {
	return &Validator{
		verifier:           verifier,
		logger:             logger,
		expectedPublisher:  "Microsoft Corporation",
		expectedIssuer:     "Microsoft Code Signing PCA 2011",
		descriptionPattern: "Microsoft Visual C++*Redistributable*",
	}
}

// Validate reports whether the file at path passes all checks: existence,
// signature against the expected publisher identity with root-of-trust
// enabled, and a file-description match against the expected pattern.
func (v *Validator) Validate(path string) bool {
	if _, err := os.Stat(path); err != nil {
		v.logger.Errorf("validation failed: %s does not exist: %v", path, err)
		return false
	}

	if verdict := v.verifier.VerifySignature(path, v.expectedPublisher, v.expectedIssuer, true); verdict != 0 {
		v.logger.Errorf("validation failed: signature check for %s returned verdict %d", path, verdict)
		return false
	}

	description, err := v.verifier.FileDescription(path)
	if err != nil {
		v.logger.Errorf("validation failed: could not read file description of %s: %v", path, err)
		return false
	}
	if !MatchWildcard(v.descriptionPattern, description) {
		v.logger.Errorf("validation failed: file description %q of %s does not match %q", description, path, v.descriptionPattern)
		return false
	}

	v.logger.Infof("validation passed for %s (%q)", path, description)
	return true
}

// MatchWildcard reports whether s matches pattern, where '*' matches any
// run of characters and '?' matches any single character. Matching is
// case-insensitive, like the host platform's metadata comparisons.
func MatchWildcard(pattern, s string) bool {
	return matchWildcard(strings.ToLower(pattern), strings.ToLower(s))
}

func matchWildcard(pattern, s string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case '*':
			// Collapse consecutive stars, then try every split point.
			for len(pattern) > 0 && pattern[0] == '*' {
				pattern = pattern[1:]
			}
			if len(pattern) == 0 {
				return true
			}
			for i := 0; i <= len(s); i++ {
				if matchWildcard(pattern, s[i:]) {
					return true
				}
			}
			return false
		case '?':
			if len(s) == 0 {
				return false
			}
		default:
			if len(s) == 0 || pattern[0] != s[0] {
				return false
			}
		}
		pattern = pattern[1:]
		s = s[1:]
	}
	return len(s) == 0
}
