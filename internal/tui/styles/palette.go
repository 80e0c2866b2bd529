package styles

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// ThemeName represents a named color theme.
type ThemeName string

// Available theme names.
const (
	ThemeDefault        ThemeName = "default"         // Purple/green dark theme
	ThemeDracula        ThemeName = "dracula"         // Dracula theme colors
	ThemeNord           ThemeName = "nord"            // Nord theme - cool blue-gray
	ThemeGruvbox        ThemeName = "gruvbox"         // Gruvbox retro groove
	ThemeTokyoNight     ThemeName = "tokyo-night"     // Tokyo Night modern theme
	ThemeSolarizedLight ThemeName = "solarized-light" // Solarized Light for bright terminals
)

// BuiltinThemes returns all built-in theme names.
func BuiltinThemes() []string {
	return []string{
		string(ThemeDefault),
		string(ThemeDracula),
		string(ThemeNord),
		string(ThemeGruvbox),
		string(ThemeTokyoNight),
		string(ThemeSolarizedLight),
	}
}

// ValidThemes returns all valid theme names (built-in + custom).
func ValidThemes() []string {
	themes := BuiltinThemes()
	themes = append(themes, CustomThemeNames()...)
	return themes
}

// IsValidTheme checks if a theme name is valid (built-in or custom).
func IsValidTheme(name string) bool {
	if slices.Contains(BuiltinThemes(), name) {
		return true
	}
	return IsCustomTheme(name)
}

// ColorPalette defines the color scheme for a theme.
type ColorPalette struct {
	// Primary accent color (focused borders, titles)
	Primary lipgloss.Color
	// Secondary accent color (success states)
	Secondary lipgloss.Color
	// Warning color (busy status)
	Warning lipgloss.Color
	// Error color (alerts, failures)
	Error lipgloss.Color
	// Muted color (metadata, hints)
	Muted lipgloss.Color
	// Surface color (status bar and modal background)
	Surface lipgloss.Color
	// Text color (primary text)
	Text lipgloss.Color
	// Border color (unfocused panel borders)
	Border lipgloss.Color
	// Accent marks the active preview tab and key hints.
	Accent lipgloss.Color
}

// DefaultPalette returns the default purple/green dark theme palette.
func DefaultPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#A78BFA"), // Purple (violet-400)
		Secondary: lipgloss.Color("#10B981"), // Green
		Warning:   lipgloss.Color("#F59E0B"), // Amber
		Error:     lipgloss.Color("#F87171"), // Red (red-400)
		Muted:     lipgloss.Color("#9CA3AF"), // Gray
		Surface:   lipgloss.Color("#1F2937"), // Dark surface
		Text:      lipgloss.Color("#F9FAFB"), // Light text
		Border:    lipgloss.Color("#6B7280"), // Gray-500
		Accent:    lipgloss.Color("#60A5FA"), // Blue
	}
}

// DraculaPalette returns the Dracula theme palette.
func DraculaPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#BD93F9"), // Dracula purple
		Secondary: lipgloss.Color("#50FA7B"), // Dracula green
		Warning:   lipgloss.Color("#F1FA8C"), // Dracula yellow
		Error:     lipgloss.Color("#FF5555"), // Dracula red
		Muted:     lipgloss.Color("#6272A4"), // Dracula comment
		Surface:   lipgloss.Color("#282A36"), // Dracula background
		Text:      lipgloss.Color("#F8F8F2"), // Dracula foreground
		Border:    lipgloss.Color("#44475A"), // Dracula selection
		Accent:    lipgloss.Color("#8BE9FD"), // Cyan
	}
}

// NordPalette returns the Nord theme palette.
func NordPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#88C0D0"), // Nord frost (cyan)
		Secondary: lipgloss.Color("#A3BE8C"), // Nord aurora green
		Warning:   lipgloss.Color("#EBCB8B"), // Nord aurora yellow
		Error:     lipgloss.Color("#BF616A"), // Nord aurora red
		Muted:     lipgloss.Color("#4C566A"), // Nord polar night 3
		Surface:   lipgloss.Color("#2E3440"), // Nord polar night 0
		Text:      lipgloss.Color("#ECEFF4"), // Nord snow storm 2
		Border:    lipgloss.Color("#3B4252"), // Nord polar night 1
		Accent:    lipgloss.Color("#81A1C1"), // Frost blue
	}
}

// GruvboxPalette returns the Gruvbox dark palette.
func GruvboxPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#83A598"), // Gruvbox aqua
		Secondary: lipgloss.Color("#B8BB26"), // Gruvbox green
		Warning:   lipgloss.Color("#FABD2F"), // Gruvbox yellow
		Error:     lipgloss.Color("#FB4934"), // Gruvbox red
		Muted:     lipgloss.Color("#928374"), // Gruvbox gray
		Surface:   lipgloss.Color("#282828"), // Gruvbox bg0
		Text:      lipgloss.Color("#EBDBB2"), // Gruvbox fg
		Border:    lipgloss.Color("#3C3836"), // Gruvbox bg1
		Accent:    lipgloss.Color("#FE8019"), // Orange
	}
}

// TokyoNightPalette returns the Tokyo Night palette.
func TokyoNightPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#7AA2F7"), // Tokyo Night blue
		Secondary: lipgloss.Color("#9ECE6A"), // Tokyo Night green
		Warning:   lipgloss.Color("#E0AF68"), // Tokyo Night yellow
		Error:     lipgloss.Color("#F7768E"), // Tokyo Night red
		Muted:     lipgloss.Color("#565F89"), // Tokyo Night comment
		Surface:   lipgloss.Color("#1A1B26"), // Tokyo Night bg
		Text:      lipgloss.Color("#C0CAF5"), // Tokyo Night fg
		Border:    lipgloss.Color("#292E42"), // Tokyo Night bg_highlight
		Accent:    lipgloss.Color("#BB9AF7"), // Magenta
	}
}

// SolarizedLightPalette returns the Solarized Light palette.
func SolarizedLightPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#268BD2"), // Solarized blue
		Secondary: lipgloss.Color("#859900"), // Solarized green
		Warning:   lipgloss.Color("#B58900"), // Solarized yellow
		Error:     lipgloss.Color("#DC322F"), // Solarized red
		Muted:     lipgloss.Color("#93A1A1"), // Base1
		Surface:   lipgloss.Color("#FDF6E3"), // Base3 background
		Text:      lipgloss.Color("#657B83"), // Base00 text
		Border:    lipgloss.Color("#EEE8D5"), // Base2
		Accent:    lipgloss.Color("#6C71C4"), // Violet
	}
}

// GetPalette returns the color palette for the given theme name.
// Checks custom themes first, then falls back to built-in themes.
// Returns the default palette for unknown theme names.
func GetPalette(name ThemeName) *ColorPalette {
	if custom := GetCustomTheme(name); custom != nil {
		return custom.ToPalette()
	}

	switch name {
	case ThemeDracula:
		return DraculaPalette()
	case ThemeNord:
		return NordPalette()
	case ThemeGruvbox:
		return GruvboxPalette()
	case ThemeTokyoNight:
		return TokyoNightPalette()
	case ThemeSolarizedLight:
		return SolarizedLightPalette()
	default:
		return DefaultPalette()
	}
}
