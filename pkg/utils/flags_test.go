package utils

import (
	"reflect"
	"testing"
)

func TestNormalizeBooleanFlags(t *testing.T) {
	boolFlags := map[string]struct{}{
		"portable":   {},
		"sidebyside": {},
		"dry-run":    {},
	}

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			"rewrites separated boolean value",
			[]string{"setup", "--portable", "false", "-targetarch", "x64"},
			[]string{"setup", "--portable=false", "-targetarch", "x64"},
		},
		{
			"keeps single-dash prefix",
			[]string{"setup", "-dry-run", "true"},
			[]string{"setup", "-dry-run=true"},
		},
		{
			"leaves non-boolean flags alone",
			[]string{"setup", "-targetarch", "x64"},
			[]string{"setup", "-targetarch", "x64"},
		},
		{
			"stops at end-of-flags terminator",
			[]string{"setup", "--", "--portable", "false"},
			[]string{"setup", "--", "--portable", "false"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeBooleanFlags(tt.in, boolFlags)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeBooleanFlags(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
