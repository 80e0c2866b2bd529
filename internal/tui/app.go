package tui

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/docreview/internal/config"
	"github.com/Iron-Ham/docreview/internal/docservice"
	"github.com/Iron-Ham/docreview/internal/logging"
	"github.com/Iron-Ham/docreview/internal/review"
	"github.com/Iron-Ham/docreview/internal/tui/msg"
)

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	model   Model
	bridge  *viewBridge
	session *review.Session
	cancel  context.CancelFunc
}

// New creates the review application for svc. Session and UI events go to
// logger; pass nil to discard them.
func New(ctx context.Context, svc docservice.Service, cfg *config.Config, logger *logging.Logger, opts ...Option) *App {
	if logger == nil {
		logger = logging.NopLogger()
	}
	ctx, cancel := context.WithCancel(ctx)

	bridge := newViewBridge()
	session := review.New(svc, bridge,
		review.WithLogger(logger),
		review.WithTimeout(cfg.Service.Timeout()),
	)
	opts = append([]Option{WithModelLogger(logger.With("component", "tui"))}, opts...)

	return &App{
		model:   NewModel(ctx, session, bridge, cfg, opts...),
		bridge:  bridge,
		session: session,
		cancel:  cancel,
	}
}

// Session returns the review session the UI drives.
func (a *App) Session() *review.Session {
	return a.session
}

// Run starts the TUI application and blocks until it exits.
func (a *App) Run() error {
	defer a.cancel()

	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
	)
	a.bridge.attach(a.program.Send)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		if _, ok := <-sigChan; ok {
			a.program.Send(tea.Quit())
		}
	}()

	_, err := a.program.Run()

	// In-flight requests are abandoned once the screen is gone.
	a.cancel()
	a.bridge.attach(func(tea.Msg) {})
	signal.Stop(sigChan)
	close(sigChan)

	return err
}

// Reload applies a changed configuration to the running program.
func (a *App) Reload(cfg *config.Config) {
	if a.program == nil || cfg == nil {
		return
	}
	a.program.Send(msg.ConfigReloadedMsg{Config: cfg})
}
