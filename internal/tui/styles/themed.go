package styles

import "github.com/charmbracelet/lipgloss"

// ThemedStyles contains all the lipgloss styles built from a color palette.
// Styles are regenerated when the theme changes.
type ThemedStyles struct {
	Palette *ColorPalette

	// Convenience styles for colors
	Primary   lipgloss.Style
	Secondary lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style
	Text      lipgloss.Style

	Header   lipgloss.Style
	MetaLine lipgloss.Style

	FieldLabel        lipgloss.Style
	FieldLabelFocused lipgloss.Style
	ReadOnlyValue     lipgloss.Style

	Panel        lipgloss.Style
	PanelFocused lipgloss.Style

	TabActive   lipgloss.Style
	TabInactive lipgloss.Style

	StatusBar   lipgloss.Style
	StatusBusy  lipgloss.Style
	StatusError lipgloss.Style
	StatusOK    lipgloss.Style

	AlertBox   lipgloss.Style
	AlertTitle lipgloss.Style

	HelpBox      lipgloss.Style
	HelpCategory lipgloss.Style
	HelpKey      lipgloss.Style
	HelpDesc     lipgloss.Style
	HelpBar      lipgloss.Style
}

// NewThemedStyles creates a ThemedStyles from the given color palette.
func NewThemedStyles(p *ColorPalette) *ThemedStyles {
	s := &ThemedStyles{Palette: p}

	s.Primary = lipgloss.NewStyle().Foreground(p.Primary)
	s.Secondary = lipgloss.NewStyle().Foreground(p.Secondary)
	s.Warning = lipgloss.NewStyle().Foreground(p.Warning)
	s.Error = lipgloss.NewStyle().Foreground(p.Error)
	s.Muted = lipgloss.NewStyle().Foreground(p.Muted)
	s.Text = lipgloss.NewStyle().Foreground(p.Text)

	s.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary)

	s.MetaLine = lipgloss.NewStyle().
		Foreground(p.Muted).
		Italic(true)

	s.FieldLabel = lipgloss.NewStyle().
		Foreground(p.Muted).
		Width(10)

	s.FieldLabelFocused = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary).
		Width(10)

	s.ReadOnlyValue = lipgloss.NewStyle().
		Foreground(p.Muted)

	s.Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border)

	s.PanelFocused = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Primary)

	s.TabActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Surface).
		Background(p.Accent).
		Padding(0, 1)

	s.TabInactive = lipgloss.NewStyle().
		Foreground(p.Muted).
		Padding(0, 1)

	s.StatusBar = lipgloss.NewStyle().
		Foreground(p.Text).
		Background(p.Surface).
		Padding(0, 1)

	s.StatusBusy = s.StatusBar.
		Foreground(p.Warning)

	s.StatusError = s.StatusBar.
		Foreground(p.Error).
		Bold(true)

	s.StatusOK = s.StatusBar.
		Foreground(p.Secondary)

	s.AlertBox = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(p.Error).
		Padding(1, 3)

	s.AlertTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Error).
		MarginBottom(1)

	s.HelpBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Primary).
		Padding(1, 2)

	s.HelpCategory = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary)

	s.HelpKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent)

	s.HelpDesc = lipgloss.NewStyle().
		Foreground(p.Text)

	s.HelpBar = lipgloss.NewStyle().
		Foreground(p.Muted)

	return s
}

// ForTheme builds the styles for a named theme. Unknown names fall back to
// the default palette.
func ForTheme(name string) *ThemedStyles {
	return NewThemedStyles(GetPalette(ThemeName(name)))
}
