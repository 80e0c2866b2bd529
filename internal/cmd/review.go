package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/Iron-Ham/docreview/internal/config"
	"github.com/Iron-Ham/docreview/internal/docservice"
	"github.com/Iron-Ham/docreview/internal/logging"
	"github.com/Iron-Ham/docreview/internal/preview"
	"github.com/Iron-Ham/docreview/internal/tui"
	"github.com/Iron-Ham/docreview/internal/tui/styles"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Start the review screen",
	Long: `Start the interactive review screen. This is also what runs when
docreview is invoked without a subcommand.

Press F1 inside the screen to list the key bindings.`,
	Args: cobra.NoArgs,
	RunE: runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the review screen needs an interactive terminal; use 'docreview next' or 'docreview progress' for scripting")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}

	// Custom themes must be registered before the theme is resolved.
	if _, loadErrs := styles.DiscoverCustomThemes(config.ThemesDir()); len(loadErrs) > 0 {
		for _, err := range loadErrs {
			logger.Warn("skipping theme file", "error", err.Error())
		}
	}
	if !styles.IsValidTheme(cfg.TUI.Theme) {
		logger.Warn("unknown theme, using default", "theme", cfg.TUI.Theme)
	}

	opts := []tui.Option{
		tui.WithResolver(client.ResolveURL),
		tui.WithOpener(preview.NewOpener(cfg.Preview.OpenCommand)),
	}
	if cfg.Preview.Enabled {
		opts = append(opts, tui.WithRenderer(preview.NewRenderer(client,
			preview.WithMaxBytes(cfg.Preview.MaxBytes),
			preview.WithLogger(logger.With("component", "preview")),
		)))
	}

	logger.Info("starting review", "base_url", client.BaseURL())
	app := tui.New(cmd.Context(), client, cfg, logger, opts...)

	watchConfig(logger, app.Reload)

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// watchConfig re-applies the config file whenever it changes on disk. Invalid
// edits are logged and ignored.
func watchConfig(logger *logging.Logger, apply func(*config.Config)) {
	if viper.ConfigFileUsed() == "" {
		return
	}
	viper.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := config.Load()
		if err != nil {
			logger.Warn("ignoring config change", "file", e.Name, "error", err.Error())
			return
		}
		_, _ = styles.DiscoverCustomThemes(config.ThemesDir())
		logger.Info("config reloaded", "file", e.Name, "op", e.Op.String())
		apply(cfg)
	})
	viper.WatchConfig()
}

// newLogger opens the debug log in the state directory, or returns a logger
// that discards everything when logging is disabled.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	logger, err := logging.NewRotatingLogger(cfg.Paths.ResolveStateDir(), cfg.Logging.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open debug log: %w", err)
	}
	return logger, nil
}

// newClient builds the Document Service client. Every request, preview
// downloads included, is bounded by service.timeout_seconds; 0 disables it.
func newClient(cfg *config.Config, logger *logging.Logger) (*docservice.HTTPClient, error) {
	client, err := docservice.NewHTTPClient(cfg.Service.BaseURL,
		docservice.WithTimeout(cfg.Service.Timeout()),
		docservice.WithUserAgent(cfg.Service.UserAgent),
		docservice.WithLogger(logger.With("component", "docservice")),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid service URL: %w", err)
	}
	return client, nil
}

// callContext bounds a one-shot CLI call by the configured timeout.
func callContext(parent context.Context, cfg *config.Config) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if d := cfg.Service.Timeout(); d > 0 {
		return context.WithTimeout(parent, d)
	}
	return context.WithCancel(parent)
}
