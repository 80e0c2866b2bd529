package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete docreview configuration
type Config struct {
	Service ServiceConfig     `mapstructure:"service"`
	Preview PreviewConfig     `mapstructure:"preview"`
	TUI     TUIConfig         `mapstructure:"tui"`
	Keys    map[string]string `mapstructure:"keys"`
	Logging LoggingConfig     `mapstructure:"logging"`
	Paths   PathsConfig       `mapstructure:"paths"`
}

// ServiceConfig locates the Document Service
type ServiceConfig struct {
	// BaseURL is the root of the Document Service API (default: http://127.0.0.1:5000)
	BaseURL string `mapstructure:"base_url"`
	// TimeoutSeconds bounds each API call. 0 disables the timeout. (default: 120)
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	// UserAgent is sent with every request (default: "docreview")
	UserAgent string `mapstructure:"user_agent"`
}

// PreviewConfig controls the preview pane
type PreviewConfig struct {
	// Enabled fetches and renders previews. When false only the URL is shown.
	Enabled bool `mapstructure:"enabled"`
	// MaxBytes caps a single preview download (default: 20 MiB)
	MaxBytes int64 `mapstructure:"max_bytes"`
	// OpenCommand opens the preview externally. Empty uses the platform
	// default (xdg-open, open, or rundll32). The URL is appended.
	OpenCommand string `mapstructure:"open_command"`
}

// TUIConfig controls the terminal UI
type TUIConfig struct {
	// Theme is a built-in theme name or a theme file in the themes directory (default: "default")
	Theme string `mapstructure:"theme"`
	// EditorWidthPercent is the editor's share of the body width, 30..80 (default: 55)
	EditorWidthPercent int `mapstructure:"editor_width_percent"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether debug logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups"`
	// Compress gzips rotated log files (default: false)
	Compress bool `mapstructure:"compress"`
}

// PathsConfig controls where docreview stores data
type PathsConfig struct {
	// StateDir holds the debug log. Supports ~ for home directory expansion.
	// If empty, defaults to $XDG_STATE_HOME/docreview or ~/.local/state/docreview.
	StateDir string `mapstructure:"state_dir"`
}

// Default values that other packages refer to.
const (
	DefaultBaseURL            = "http://127.0.0.1:5000"
	DefaultTimeoutSeconds     = 120
	DefaultUserAgent          = "docreview"
	DefaultPreviewMaxBytes    = 20 << 20
	DefaultEditorWidthPercent = 55
	DefaultTheme              = "default"
)

// Timeout returns the per-request timeout (0 means none)
func (s *ServiceConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// ResolveStateDir returns the state directory with ~ expanded.
func (p *PathsConfig) ResolveStateDir() string {
	if p.StateDir == "" {
		return DefaultStateDir()
	}
	return expandHome(p.StateDir)
}

// DefaultStateDir returns $XDG_STATE_HOME/docreview, falling back to
// ~/.local/state/docreview.
func DefaultStateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "docreview")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".docreview"
	}
	return filepath.Join(home, ".local", "state", "docreview")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			BaseURL:        DefaultBaseURL,
			TimeoutSeconds: DefaultTimeoutSeconds,
			UserAgent:      DefaultUserAgent,
		},
		Preview: PreviewConfig{
			Enabled:  true,
			MaxBytes: DefaultPreviewMaxBytes,
		},
		TUI: TUIConfig{
			Theme:              DefaultTheme,
			EditorWidthPercent: DefaultEditorWidthPercent,
		},
		Keys: map[string]string{},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	SetDefaultsOn(viper.GetViper())
}

// SetDefaultsOn registers default values on v
func SetDefaultsOn(v *viper.Viper) {
	defaults := Default()

	// Service defaults
	v.SetDefault("service.base_url", defaults.Service.BaseURL)
	v.SetDefault("service.timeout_seconds", defaults.Service.TimeoutSeconds)
	v.SetDefault("service.user_agent", defaults.Service.UserAgent)

	// Preview defaults
	v.SetDefault("preview.enabled", defaults.Preview.Enabled)
	v.SetDefault("preview.max_bytes", defaults.Preview.MaxBytes)
	v.SetDefault("preview.open_command", defaults.Preview.OpenCommand)

	// TUI defaults
	v.SetDefault("tui.theme", defaults.TUI.Theme)
	v.SetDefault("tui.editor_width_percent", defaults.TUI.EditorWidthPercent)

	// Logging defaults
	v.SetDefault("logging.enabled", defaults.Logging.Enabled)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	v.SetDefault("logging.compress", defaults.Logging.Compress)

	// Paths defaults
	v.SetDefault("paths.state_dir", defaults.Paths.StateDir)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads and validates the configuration held by v
func LoadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.Keys == nil {
		cfg.Keys = map[string]string{}
	}

	// Validate the configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "docreview")
	}
	// Fall back to ~/.config/docreview
	home, err := os.UserHomeDir()
	if err != nil {
		return ".docreview"
	}
	return filepath.Join(home, ".config", "docreview")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ThemesDir returns the directory searched for custom theme files
func ThemesDir() string {
	return filepath.Join(ConfigDir(), "themes")
}
