package ui

import "testing"

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 {
		t.Fatalf("ThemeNames() returned %d names, want 3", len(names))
	}
	if names[0] != "Dracula" || names[1] != "Slate" || names[2] != "Nord" {
		t.Fatalf("ThemeNames() = %v, want [Dracula Slate Nord]", names)
	}
	names[0] = "changed"
	if ThemeNames()[0] != "Dracula" {
		t.Fatalf("ThemeNames() exposes internal order")
	}
}

func TestNextTheme(t *testing.T) {
	tests := []struct {
		current string
		want    string
	}{
		{"Dracula", "Slate"},
		{"Slate", "Nord"},
		{"Nord", "Dracula"},
		{"unknown", "Dracula"},
	}
	for _, tt := range tests {
		if got := NextTheme(tt.current); got != tt.want {
			t.Errorf("NextTheme(%q) = %q, want %q", tt.current, got, tt.want)
		}
	}
}

func TestGetTheme_FallsBackToDracula(t *testing.T) {
	if got := GetTheme("Solarized").Name; got != "Dracula" {
		t.Fatalf("GetTheme(unknown).Name = %q, want Dracula", got)
	}
	if got := GetTheme("Nord").Name; got != "Nord" {
		t.Fatalf("GetTheme(Nord).Name = %q, want Nord", got)
	}
}

func TestThemesDefineEveryStatus(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, status := range []string{"disconnected", "connecting", "connected"} {
			if th.StatusColors[status] == "" {
				t.Errorf("theme %s has no color for %s", name, status)
			}
		}
	}
}
