package mode

import (
	"path/filepath"
	"testing"
)

func TestFromFlags(t *testing.T) {
	tests := []struct {
		name       string
		portable   bool
		sideBySide bool
		want       InstallMode
		wantErr    bool
	}{
		{"neither flag", false, false, Normal, false},
		{"portable", true, false, Portable, false},
		{"sidebyside", false, true, SideBySide, false},
		{"both flags", true, true, Normal, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromFlags(tt.portable, tt.sideBySide)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("FromFlags = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIdentity(t *testing.T) {
	if got := Normal.Identity("Contoso Editor", "2.4.1"); got != "Contoso Editor" {
		t.Errorf("Normal identity = %q", got)
	}
	if got := SideBySide.Identity("Contoso Editor", "2.4.1"); got != "Contoso Editor 2.4.1" {
		t.Errorf("SideBySide identity = %q", got)
	}
	if got := Portable.Identity("Contoso Editor", "2.4.1"); got != "Contoso Editor" {
		t.Errorf("Portable identity = %q", got)
	}
}

func TestInstallDir(t *testing.T) {
	base := filepath.Join("C:", "Program Files")
	portableBase := filepath.Join("D:", "apps")

	if got := Normal.InstallDir(base, portableBase, "Editor", "2.4.1"); got != filepath.Join(base, "Editor") {
		t.Errorf("Normal dir = %q", got)
	}
	if got := SideBySide.InstallDir(base, portableBase, "Editor", "2.4.1"); got != filepath.Join(base, "Editor 2.4.1") {
		t.Errorf("SideBySide dir = %q", got)
	}
	if got := Portable.InstallDir(base, portableBase, "Editor", "2.4.1"); got != filepath.Join(portableBase, "Editor") {
		t.Errorf("Portable dir = %q", got)
	}
}

func TestRegistersWithSystem(t *testing.T) {
	if Portable.RegistersWithSystem() {
		t.Error("portable mode must not register with the system")
	}
	if !Normal.RegistersWithSystem() || !SideBySide.RegistersWithSystem() {
		t.Error("normal and sidebyside modes should register with the system")
	}
}
