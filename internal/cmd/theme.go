package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Iron-Ham/docreview/internal/config"
	"github.com/Iron-Ham/docreview/internal/tui/styles"
	"github.com/spf13/cobra"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Manage color themes",
	Long: `Manage color themes for the review screen.

docreview supports both built-in themes and custom user-defined themes.
Custom themes are stored in ~/.config/docreview/themes/ as YAML files.

Use 'theme list' to see all available themes.
Use 'theme export' to create a template for custom themes.`,
}

var themeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available themes",
	RunE:  runThemeList,
}

var themeExportCmd = &cobra.Command{
	Use:   "export <theme-name> [output-file]",
	Short: "Export a theme to YAML",
	Long: `Export a theme to YAML format for customization or sharing.

If no output file is specified, the YAML is printed to stdout.

Examples:
  docreview config theme export default                 # Print default theme to stdout
  docreview config theme export nord ~/.config/docreview/themes/mine.yaml`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runThemeExport,
}

var themeInfoCmd = &cobra.Command{
	Use:   "info <theme-name>",
	Short: "Show information about a theme",
	Args:  cobra.ExactArgs(1),
	RunE:  runThemeInfo,
}

func init() {
	themeCmd.AddCommand(themeListCmd)
	themeCmd.AddCommand(themeExportCmd)
	themeCmd.AddCommand(themeInfoCmd)
	configCmd.AddCommand(themeCmd)
}

// discoverThemes loads custom themes and reports load errors on stderr.
func discoverThemes(cmd *cobra.Command) []error {
	_, loadErrs := styles.DiscoverCustomThemes(config.ThemesDir())
	if len(loadErrs) > 0 {
		errOut := cmd.ErrOrStderr()
		fmt.Fprintln(errOut, "Warning: Some themes failed to load:")
		for _, err := range loadErrs {
			fmt.Fprintf(errOut, "  - %v\n", err)
		}
		fmt.Fprintln(errOut)
	}
	return loadErrs
}

// unknownThemeError explains why name cannot be used, pointing at a broken
// theme file when there is one.
func unknownThemeError(name string, loadErrs []error) error {
	for _, err := range loadErrs {
		errStr := err.Error()
		if strings.HasPrefix(errStr, name+".yaml:") || strings.HasPrefix(errStr, name+".yml:") {
			return fmt.Errorf("theme '%s' exists but failed to load: %v", name, err)
		}
	}
	return fmt.Errorf("unknown theme: %s\n\nRun 'docreview config theme list' to see available themes.\nCustom themes should be placed in: %s", name, config.ThemesDir())
}

func runThemeList(cmd *cobra.Command, args []string) error {
	discoverThemes(cmd)
	out := cmd.OutOrStdout()

	current := config.Get().TUI.Theme
	mark := func(name string) string {
		if name == current {
			return " (current)"
		}
		return ""
	}

	fmt.Fprintln(out, "Built-in themes:")
	for _, name := range styles.BuiltinThemes() {
		fmt.Fprintf(out, "  - %s%s\n", name, mark(name))
	}

	if custom := styles.CustomThemeNames(); len(custom) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Custom themes:")
		for _, name := range custom {
			theme := styles.GetCustomTheme(styles.ThemeName(name))
			if theme != nil && theme.Author != "" {
				fmt.Fprintf(out, "  - %s (by %s)%s\n", name, theme.Author, mark(name))
			} else {
				fmt.Fprintf(out, "  - %s%s\n", name, mark(name))
			}
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Custom themes directory: %s\n", config.ThemesDir())
	return nil
}

func runThemeExport(cmd *cobra.Command, args []string) error {
	name := args[0]
	loadErrs := discoverThemes(cmd)
	if !styles.IsValidTheme(name) {
		return unknownThemeError(name, loadErrs)
	}

	data, err := styles.ExportTheme(styles.ThemeName(name))
	if err != nil {
		return fmt.Errorf("exporting theme: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(args) > 1 {
		outputPath := args[1]
		if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(outputPath), err)
		}
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			return fmt.Errorf("writing to %s: %w", outputPath, err)
		}
		fmt.Fprintf(out, "Theme exported to: %s\n", outputPath)
		return nil
	}

	_, err = out.Write(data)
	return err
}

func runThemeInfo(cmd *cobra.Command, args []string) error {
	name := args[0]
	loadErrs := discoverThemes(cmd)
	if !styles.IsValidTheme(name) {
		return unknownThemeError(name, loadErrs)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Theme: %s\n\n", name)

	if styles.IsBuiltinTheme(name) {
		fmt.Fprintln(out, "Type: Built-in")
	} else {
		fmt.Fprintln(out, "Type: Custom")
		if theme := styles.GetCustomTheme(styles.ThemeName(name)); theme != nil {
			if theme.Author != "" {
				fmt.Fprintf(out, "Author: %s\n", theme.Author)
			}
			if theme.Description != "" {
				fmt.Fprintf(out, "Description: %s\n", theme.Description)
			}
		}
	}

	p := styles.GetPalette(styles.ThemeName(name))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Colors:")
	fmt.Fprintf(out, "  Primary:   %s\n", p.Primary)
	fmt.Fprintf(out, "  Secondary: %s\n", p.Secondary)
	fmt.Fprintf(out, "  Warning:   %s\n", p.Warning)
	fmt.Fprintf(out, "  Error:     %s\n", p.Error)
	fmt.Fprintf(out, "  Muted:     %s\n", p.Muted)
	fmt.Fprintf(out, "  Surface:   %s\n", p.Surface)
	fmt.Fprintf(out, "  Text:      %s\n", p.Text)
	fmt.Fprintf(out, "  Border:    %s\n", p.Border)
	fmt.Fprintf(out, "  Accent:    %s\n", p.Accent)
	return nil
}
