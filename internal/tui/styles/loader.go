package styles

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// ThemeFile represents a custom theme definition loaded from YAML.
type ThemeFile struct {
	// Name is the theme's display name (e.g., "Paper")
	Name string `yaml:"name"`
	// Author is the theme creator's name (optional)
	Author string `yaml:"author,omitempty"`
	// Description provides details about the theme (optional)
	Description string `yaml:"description,omitempty"`
	// Version is the theme file format version (currently "1")
	Version string `yaml:"version"`
	// Colors defines the color palette
	Colors ThemeColors `yaml:"colors"`
}

// ThemeColors contains all color definitions for a theme.
// All colors should be hex format (#RRGGBB or #RGB).
type ThemeColors struct {
	Primary   string `yaml:"primary"`
	Secondary string `yaml:"secondary"`
	Warning   string `yaml:"warning"`
	Error     string `yaml:"error"`
	Muted     string `yaml:"muted"`
	Surface   string `yaml:"surface"`
	Text      string `yaml:"text"`
	Border    string `yaml:"border"`

	// Accent defaults to Primary when omitted.
	Accent string `yaml:"accent,omitempty"`
}

// hexColorRegex validates hex color format.
var hexColorRegex = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// LoadThemeFile loads a theme from a YAML file.
func LoadThemeFile(path string) (*ThemeFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading theme file: %w", err)
	}

	var theme ThemeFile
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return nil, fmt.Errorf("parsing theme file: %w", err)
	}

	if err := theme.Validate(); err != nil {
		return nil, fmt.Errorf("invalid theme: %w", err)
	}

	return &theme, nil
}

// Validate checks that the theme file is well-formed.
func (t *ThemeFile) Validate() error {
	if t.Name == "" {
		return errors.New("theme name is required")
	}

	if t.Version == "" {
		return errors.New("theme version is required")
	}

	if t.Version != "1" {
		return fmt.Errorf("unsupported theme version: %s (supported: 1)", t.Version)
	}

	required := []struct{ name, value string }{
		{"primary", t.Colors.Primary},
		{"secondary", t.Colors.Secondary},
		{"warning", t.Colors.Warning},
		{"error", t.Colors.Error},
		{"muted", t.Colors.Muted},
		{"surface", t.Colors.Surface},
		{"text", t.Colors.Text},
		{"border", t.Colors.Border},
	}
	for _, c := range required {
		if c.value == "" {
			return fmt.Errorf("color '%s' is required", c.name)
		}
		if !isValidHexColor(c.value) {
			return fmt.Errorf("color '%s' has invalid format: %s (expected #RGB or #RRGGBB)", c.name, c.value)
		}
	}

	if t.Colors.Accent != "" && !isValidHexColor(t.Colors.Accent) {
		return fmt.Errorf("color 'accent' has invalid format: %s (expected #RGB or #RRGGBB)", t.Colors.Accent)
	}

	return nil
}

// isValidHexColor checks if a string is a valid hex color.
func isValidHexColor(color string) bool {
	return hexColorRegex.MatchString(color)
}

// ToPalette converts the theme file to a ColorPalette.
func (t *ThemeFile) ToPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color(t.Colors.Primary),
		Secondary: lipgloss.Color(t.Colors.Secondary),
		Warning:   lipgloss.Color(t.Colors.Warning),
		Error:     lipgloss.Color(t.Colors.Error),
		Muted:     lipgloss.Color(t.Colors.Muted),
		Surface:   lipgloss.Color(t.Colors.Surface),
		Text:      lipgloss.Color(t.Colors.Text),
		Border:    lipgloss.Color(t.Colors.Border),
		Accent:    colorOrDefault(t.Colors.Accent, t.Colors.Primary),
	}
}

// colorOrDefault returns the color if non-empty, otherwise returns the default.
func colorOrDefault(color, defaultColor string) lipgloss.Color {
	if color != "" {
		return lipgloss.Color(color)
	}
	return lipgloss.Color(defaultColor)
}

// Custom themes are discovered from the config watcher goroutine and read
// from the UI loop.
var (
	customMu     sync.RWMutex
	customThemes = make(map[ThemeName]*ThemeFile)
)

// RegisterCustomTheme registers a custom theme by name.
func RegisterCustomTheme(name ThemeName, theme *ThemeFile) {
	customMu.Lock()
	defer customMu.Unlock()
	customThemes[name] = theme
}

// GetCustomTheme returns a custom theme by name, or nil if not found.
func GetCustomTheme(name ThemeName) *ThemeFile {
	customMu.RLock()
	defer customMu.RUnlock()
	return customThemes[name]
}

// CustomThemeNames returns the sorted names of all registered custom themes.
func CustomThemeNames() []string {
	customMu.RLock()
	defer customMu.RUnlock()
	names := make([]string, 0, len(customThemes))
	for name := range customThemes {
		names = append(names, string(name))
	}
	slices.Sort(names)
	return names
}

// ClearCustomThemes removes all registered custom themes.
func ClearCustomThemes() {
	customMu.Lock()
	defer customMu.Unlock()
	customThemes = make(map[ThemeName]*ThemeFile)
}

// IsBuiltinTheme checks if a theme name is a built-in theme.
func IsBuiltinTheme(name string) bool {
	return slices.Contains(BuiltinThemes(), name)
}

// IsCustomTheme checks if a theme name is a registered custom theme.
func IsCustomTheme(name string) bool {
	return GetCustomTheme(ThemeName(name)) != nil
}

// DiscoverCustomThemes loads every *.yaml / *.yml theme in dir. A missing
// directory is not an error. Invalid files are skipped and reported.
func DiscoverCustomThemes(dir string) ([]string, []error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, []error{fmt.Errorf("reading themes directory: %w", err)}
	}

	var loaded []string
	var errs []error

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		theme, err := LoadThemeFile(filepath.Join(dir, name))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}

		themeName := strings.TrimSuffix(strings.TrimSuffix(name, ".yaml"), ".yml")

		// Don't allow custom themes to override built-in themes
		if IsBuiltinTheme(themeName) {
			errs = append(errs, fmt.Errorf("%s: cannot override built-in theme '%s'", name, themeName))
			continue
		}

		RegisterCustomTheme(ThemeName(themeName), theme)
		loaded = append(loaded, themeName)
	}

	return loaded, errs
}

// ExportTheme renders a theme as YAML, ready to be edited and dropped into
// the themes directory.
func ExportTheme(name ThemeName) ([]byte, error) {
	if custom := GetCustomTheme(name); custom != nil {
		return yaml.Marshal(custom)
	}
	if !IsBuiltinTheme(string(name)) {
		return nil, fmt.Errorf("unknown theme %q", name)
	}
	return yaml.Marshal(paletteToThemeFile(string(name), GetPalette(name)))
}

func paletteToThemeFile(name string, p *ColorPalette) *ThemeFile {
	return &ThemeFile{
		Name:        name,
		Description: fmt.Sprintf("Exported from built-in theme '%s'", name),
		Version:     "1",
		Colors: ThemeColors{
			Primary:   string(p.Primary),
			Secondary: string(p.Secondary),
			Warning:   string(p.Warning),
			Error:     string(p.Error),
			Muted:     string(p.Muted),
			Surface:   string(p.Surface),
			Text:      string(p.Text),
			Border:    string(p.Border),
			Accent:    string(p.Accent),
		},
	}
}
