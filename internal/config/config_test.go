package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	if cfg.Service.BaseURL != "http://127.0.0.1:5000" {
		t.Errorf("Service.BaseURL = %q", cfg.Service.BaseURL)
	}
	if cfg.Service.Timeout() != 120*time.Second {
		t.Errorf("Service.Timeout() = %v, want 2m", cfg.Service.Timeout())
	}
	if !cfg.Preview.Enabled {
		t.Error("Preview.Enabled should be true by default")
	}
	if cfg.Preview.MaxBytes != 20<<20 {
		t.Errorf("Preview.MaxBytes = %d", cfg.Preview.MaxBytes)
	}
	if cfg.TUI.EditorWidthPercent != 55 {
		t.Errorf("TUI.EditorWidthPercent = %d, want 55", cfg.TUI.EditorWidthPercent)
	}
	if cfg.TUI.Theme != "default" {
		t.Errorf("TUI.Theme = %q", cfg.TUI.Theme)
	}
	if cfg.Keys == nil || len(cfg.Keys) != 0 {
		t.Errorf("Keys = %v, want empty map", cfg.Keys)
	}
	if !cfg.Logging.Enabled || cfg.Logging.Level != "info" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if cfg.Logging.MaxSizeMB != 10 || cfg.Logging.MaxBackups != 3 || cfg.Logging.Compress {
		t.Errorf("Logging rotation = %+v", cfg.Logging)
	}
}

func TestServiceConfig_Timeout(t *testing.T) {
	tests := []struct {
		seconds int
		want    time.Duration
	}{
		{0, 0},
		{1, time.Second},
		{90, 90 * time.Second},
	}
	for _, tt := range tests {
		s := ServiceConfig{TimeoutSeconds: tt.seconds}
		if got := s.Timeout(); got != tt.want {
			t.Errorf("Timeout(%d) = %v, want %v", tt.seconds, got, tt.want)
		}
	}
}

func TestLoadFrom(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		v := viper.New()
		SetDefaultsOn(v)

		cfg, err := LoadFrom(v)
		if err != nil {
			t.Fatalf("LoadFrom: %v", err)
		}
		if cfg.Service.BaseURL != DefaultBaseURL || cfg.Keys == nil {
			t.Errorf("cfg = %+v", cfg)
		}
	})

	t.Run("yaml overrides", func(t *testing.T) {
		v := viper.New()
		SetDefaultsOn(v)
		v.SetConfigType("yaml")
		err := v.ReadConfig(strings.NewReader(`
service:
  base_url: https://docs.example.com/api
  timeout_seconds: 30
tui:
  editor_width_percent: 60
keys:
  publish: ctrl+y
logging:
  level: debug
  compress: true
`))
		if err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadFrom(v)
		if err != nil {
			t.Fatalf("LoadFrom: %v", err)
		}
		if cfg.Service.BaseURL != "https://docs.example.com/api" || cfg.Service.TimeoutSeconds != 30 {
			t.Errorf("Service = %+v", cfg.Service)
		}
		if cfg.TUI.EditorWidthPercent != 60 || cfg.TUI.Theme != DefaultTheme {
			t.Errorf("TUI = %+v", cfg.TUI)
		}
		if cfg.Keys["publish"] != "ctrl+y" {
			t.Errorf("Keys = %v", cfg.Keys)
		}
		if cfg.Logging.Level != "debug" || !cfg.Logging.Compress || cfg.Logging.MaxBackups != 3 {
			t.Errorf("Logging = %+v", cfg.Logging)
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		v := viper.New()
		SetDefaultsOn(v)
		v.Set("service.base_url", "ftp://example.com")
		v.Set("tui.editor_width_percent", 95)

		_, err := LoadFrom(v)
		if err == nil {
			t.Fatal("expected validation error")
		}
		errs, ok := err.(ValidationErrors)
		if !ok || len(errs) != 2 {
			t.Fatalf("err = %#v, want 2 ValidationErrors", err)
		}
	})
}

func TestPathsConfig_ResolveStateDir(t *testing.T) {
	t.Run("default uses XDG_STATE_HOME", func(t *testing.T) {
		t.Setenv("XDG_STATE_HOME", "/custom/state")
		p := PathsConfig{}
		if got := p.ResolveStateDir(); got != "/custom/state/docreview" {
			t.Errorf("ResolveStateDir() = %q", got)
		}
	})

	t.Run("default falls back to home", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("XDG_STATE_HOME", "")
		t.Setenv("HOME", home)
		p := PathsConfig{}
		want := filepath.Join(home, ".local", "state", "docreview")
		if got := p.ResolveStateDir(); got != want {
			t.Errorf("ResolveStateDir() = %q, want %q", got, want)
		}
	})

	t.Run("expands home", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		p := PathsConfig{StateDir: "~/review-logs"}
		if got := p.ResolveStateDir(); got != filepath.Join(home, "review-logs") {
			t.Errorf("ResolveStateDir() = %q", got)
		}
	})

	t.Run("absolute path kept", func(t *testing.T) {
		p := PathsConfig{StateDir: "/var/log/docreview"}
		if got := p.ResolveStateDir(); got != "/var/log/docreview" {
			t.Errorf("ResolveStateDir() = %q", got)
		}
	})
}

func TestConfigDir(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		if got := ConfigDir(); got != "/custom/config/docreview" {
			t.Errorf("ConfigDir() = %q", got)
		}
		if got := ConfigFile(); got != "/custom/config/docreview/config.yaml" {
			t.Errorf("ConfigFile() = %q", got)
		}
		if got := ThemesDir(); got != "/custom/config/docreview/themes" {
			t.Errorf("ThemesDir() = %q", got)
		}
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", "")
		t.Setenv("HOME", home)
		want := filepath.Join(home, ".config", "docreview")
		if got := ConfigDir(); got != want {
			t.Errorf("ConfigDir() = %q, want %q", got, want)
		}
	})
}

func TestGet(t *testing.T) {
	// Set defaults in viper first (normally done by cmd init)
	SetDefaults()

	cfg := Get()
	if cfg == nil {
		t.Fatal("Get() returned nil")
	}
	if cfg.Service.BaseURL == "" {
		t.Error("Get() should carry a base URL")
	}
}
