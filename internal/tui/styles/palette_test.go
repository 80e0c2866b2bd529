package styles

import (
	"slices"
	"testing"
)

func TestBuiltinThemes(t *testing.T) {
	themes := BuiltinThemes()
	if len(themes) != 6 || themes[0] != string(ThemeDefault) {
		t.Errorf("BuiltinThemes() = %v", themes)
	}
	for _, name := range themes {
		if !IsValidTheme(name) || !IsBuiltinTheme(name) {
			t.Errorf("%q should be a valid built-in theme", name)
		}
	}
	if IsValidTheme("monokai-pro") {
		t.Error("unknown theme reported valid")
	}
}

func TestValidThemes_IncludesCustom(t *testing.T) {
	ClearCustomThemes()
	t.Cleanup(ClearCustomThemes)

	RegisterCustomTheme("paper", &ThemeFile{Name: "Paper", Version: "1", Colors: validColors()})
	if !slices.Contains(ValidThemes(), "paper") {
		t.Errorf("ValidThemes() = %v, want paper", ValidThemes())
	}
}

func TestGetPalette(t *testing.T) {
	tests := []struct {
		name ThemeName
		want *ColorPalette
	}{
		{ThemeDefault, DefaultPalette()},
		{ThemeDracula, DraculaPalette()},
		{ThemeNord, NordPalette()},
		{ThemeGruvbox, GruvboxPalette()},
		{ThemeTokyoNight, TokyoNightPalette()},
		{ThemeSolarizedLight, SolarizedLightPalette()},
		{"unknown", DefaultPalette()},
	}
	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			if got := GetPalette(tt.name); *got != *tt.want {
				t.Errorf("GetPalette(%q) = %+v", tt.name, got)
			}
		})
	}
}

func TestPalettesComplete(t *testing.T) {
	for _, name := range BuiltinThemes() {
		p := GetPalette(ThemeName(name))
		for field, c := range map[string]string{
			"primary": string(p.Primary), "secondary": string(p.Secondary),
			"warning": string(p.Warning), "error": string(p.Error),
			"muted": string(p.Muted), "surface": string(p.Surface),
			"text": string(p.Text), "border": string(p.Border),
			"accent": string(p.Accent),
		} {
			if !isValidHexColor(c) {
				t.Errorf("%s.%s = %q", name, field, c)
			}
		}
	}
}
