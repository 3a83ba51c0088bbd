package ui

import "testing"

func TestGetThemeFallsBackToDefault(t *testing.T) {
	theme := GetTheme("NoSuchTheme")
	if theme.Name != themes[0].Name {
		t.Fatalf("GetTheme fallback = %q, want %q", theme.Name, themes[0].Name)
	}
}

func TestGetThemeByName(t *testing.T) {
	theme := GetTheme("Slate")
	if theme.Name != "Slate" {
		t.Fatalf("GetTheme(Slate) = %q", theme.Name)
	}
}

func TestNextThemeWraps(t *testing.T) {
	name := themes[0].Name
	seen := map[string]bool{name: true}
	for i := 1; i < len(themes); i++ {
		name = NextTheme(name)
		if seen[name] {
			t.Fatalf("NextTheme revisited %q before wrapping", name)
		}
		seen[name] = true
	}
	if got := NextTheme(name); got != themes[0].Name {
		t.Fatalf("NextTheme did not wrap: got %q, want %q", got, themes[0].Name)
	}
}
