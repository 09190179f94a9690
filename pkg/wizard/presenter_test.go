package wizard

import (
	"strings"
	"testing"
)

func TestPromptRetryAnswers(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"no\n", false},
		{"\n", false},
		{"whatever\n", false},
		{"", false}, // closed stdin
		{"y", true}, // answer without trailing newline at EOF
	}
	for _, tt := range tests {
		var out strings.Builder
		p := NewConsolePresenterIO(&out, strings.NewReader(tt.input))
		if got := p.PromptRetry("Retry the download?"); got != tt.want {
			t.Errorf("PromptRetry with input %q = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "Retry the download?") {
			t.Errorf("prompt text missing from output %q", out.String())
		}
		if !strings.Contains(out.String(), "[y/N]") {
			t.Errorf("answer hint missing from output %q", out.String())
		}
	}
}

func TestShowProgressAndBlockingError(t *testing.T) {
	var out strings.Builder
	p := NewConsolePresenterIO(&out, strings.NewReader(""))

	p.ShowProgress("Installing...")
	p.HideProgress()
	p.ShowBlockingError("something broke")

	if !strings.Contains(out.String(), "Installing...") {
		t.Errorf("progress label missing from output %q", out.String())
	}
	if !strings.Contains(out.String(), "ERROR: something broke") {
		t.Errorf("error text missing from output %q", out.String())
	}
}
