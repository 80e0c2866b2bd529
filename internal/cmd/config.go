package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Iron-Ham/docreview/internal/config"
	"github.com/Iron-Ham/docreview/internal/tui/keymap"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View docreview configuration",
	Long: `View docreview configuration.

Without arguments, displays the current configuration.
Use subcommands to create a config file or manage themes.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/docreview/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List key binding commands and their current keys",
	Long: `List every command that can be rebound under the keys section of the
config file, with the keys currently bound to it.`,
	RunE: runConfigKeys,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configKeysCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(out, "Configuration is invalid, showing defaults:\n%v\n\n", err)
		cfg = config.Default()
	}

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Config file: (none - using defaults)\n")
	}
	fmt.Fprintln(out)

	data, err := yaml.Marshal(configView(cfg))
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}
	_, err = out.Write(data)
	return err
}

// configView mirrors Config with yaml tags matching the file format.
func configView(cfg *config.Config) map[string]any {
	keys := map[string]string{}
	for k, v := range cfg.Keys {
		keys[k] = v
	}
	return map[string]any{
		"service": map[string]any{
			"base_url":        cfg.Service.BaseURL,
			"timeout_seconds": cfg.Service.TimeoutSeconds,
			"user_agent":      cfg.Service.UserAgent,
		},
		"preview": map[string]any{
			"enabled":      cfg.Preview.Enabled,
			"max_bytes":    cfg.Preview.MaxBytes,
			"open_command": cfg.Preview.OpenCommand,
		},
		"tui": map[string]any{
			"theme":                cfg.TUI.Theme,
			"editor_width_percent": cfg.TUI.EditorWidthPercent,
		},
		"keys": keys,
		"logging": map[string]any{
			"enabled":     cfg.Logging.Enabled,
			"level":       cfg.Logging.Level,
			"max_size_mb": cfg.Logging.MaxSizeMB,
			"max_backups": cfg.Logging.MaxBackups,
			"compress":    cfg.Logging.Compress,
		},
		"paths": map[string]any{
			"state_dir": cfg.Paths.ResolveStateDir(),
		},
	}
}

const defaultConfigFile = `# docreview configuration

# Document Service connection
service:
  # Root of the Document Service API
  base_url: http://127.0.0.1:5000
  # Per-request timeout in seconds (0 disables it)
  timeout_seconds: 120
  user_agent: docreview

# Preview pane
preview:
  # Fetch and render previews (false shows only the URL)
  enabled: true
  # Largest preview download in bytes
  max_bytes: 20971520
  # Command used to open a preview externally; empty uses xdg-open/open
  open_command: ""

# Terminal UI
tui:
  # Built-in theme or a file in the themes directory
  # Run 'docreview config theme list' to see them
  theme: default
  # Editor share of the body width (30-80)
  editor_width_percent: 55

# Key binding overrides: <command>: "<key>[, <key>...]"
# Run 'docreview config keys' to list commands
keys: {}
#  publish: "alt+enter, ctrl+p"
#  draft: ctrl+s

# Debug log
logging:
  enabled: true
  # debug, info, warn or error
  level: info
  max_size_mb: 10
  max_backups: 3
  compress: false

paths:
  # Directory holding debug.log; defaults to $XDG_STATE_HOME/docreview
  state_dir: ""
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s", configFile)
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configFile, []byte(defaultConfigFile), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created config file at %s\n", configFile)
	fmt.Fprintln(out, "Edit this file to customize docreview. Changes apply to a running review screen.")

	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", config.ConfigFile())
	}

	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	fmt.Fprintf(out, "  2. ./config.yaml (current directory)\n")
	fmt.Fprintln(out, "\nEnvironment variables: DOCREVIEW_* (e.g., DOCREVIEW_SERVICE_BASE_URL)")

	return nil
}

func runConfigKeys(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	km := keymap.DefaultKeymap()
	if err := km.ApplyOverrides(cfg.Keys); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}

	commands := keymap.FormCommands()
	names := make([]string, 0, len(commands))
	for _, c := range commands {
		names = append(names, string(c))
	}
	sort.Strings(names)

	width := 0
	for _, n := range names {
		width = max(width, len(n))
	}
	out := cmd.OutOrStdout()
	for _, n := range names {
		keys := km.KeysFor(keymap.Command(n), keymap.ModeForm)
		fmt.Fprintf(out, "  %-*s  %s\n", width, n, strings.ReplaceAll(keys, "/", ", "))
	}
	return nil
}
