package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/docreview/internal/config"
	"github.com/Iron-Ham/docreview/internal/docservice"
	"github.com/Iron-Ham/docreview/internal/logging"
	"github.com/Iron-Ham/docreview/internal/preview"
	"github.com/Iron-Ham/docreview/internal/review"
	"github.com/Iron-Ham/docreview/internal/tui/keymap"
	"github.com/Iron-Ham/docreview/internal/tui/msg"
	"github.com/Iron-Ham/docreview/internal/tui/styles"
)

// field identifies a focusable form element, in tab order.
type field int

const (
	fieldTitle field = iota
	fieldDate
	fieldCategory
	fieldAuthor
	fieldEditor
	fieldCount
)

// Model is the Bubbletea model for the review screen. All document state
// lives in the review session; the model only mirrors what the session
// renders through the view bridge.
type Model struct {
	ctx      context.Context
	session  *review.Session
	bridge   *viewBridge
	renderer *preview.Renderer // nil when preview rendering is disabled
	resolve  func(ref string) string
	opener   *preview.Opener
	logger   *logging.Logger

	keymap        *keymap.Keymap
	styles        *styles.ThemedStyles
	editorPercent int

	title    textinput.Model
	date     textinput.Model
	category textinput.Model
	author   textinput.Model
	editor   textarea.Model
	preview  viewport.Model
	spinner  spinner.Model
	focus    field

	doc        *docservice.Document
	mode       review.PreviewMode
	previewRef string
	rendering  *preview.Rendering

	status    string
	statusErr bool
	pending   int
	alert     string
	showHelp  bool

	width  int
	height int
	ready  bool
}

// NewModel creates the review screen model. The session must have been
// created with bridge as its view.
func NewModel(ctx context.Context, session *review.Session, bridge *viewBridge, cfg *config.Config, opts ...Option) Model {
	m := Model{
		ctx:     ctx,
		session: session,
		bridge:  bridge,
		resolve: func(ref string) string { return ref },
		opener:  preview.NewOpener(cfg.Preview.OpenCommand),
		logger:  logging.NopLogger(),
		mode:    review.PreviewPDF,
		status:  review.StatusLoading,
		pending: 1, // the initial load started by Init
	}
	for _, opt := range opts {
		opt(&m)
	}

	m.title = newInput("Title")
	m.date = newInput("YYYY-MM-DD")
	m.date.CharLimit = len(review.DateLayout)
	m.category = newInput("Category")
	m.author = newInput("Author")

	m.editor = textarea.New()
	m.editor.Placeholder = "Extracted text"
	m.editor.ShowLineNumbers = false
	m.editor.CharLimit = 0
	m.editor.MaxHeight = 0

	m.preview = viewport.New(0, 0)
	m.spinner = spinner.New(spinner.WithSpinner(spinner.Dot))

	m.applyConfig(cfg)
	m.setFocus(fieldTitle)
	m.refreshPreview()
	return m
}

// Option configures optional Model collaborators.
type Option func(*Model)

// WithRenderer enables preview rendering.
func WithRenderer(r *preview.Renderer) Option {
	return func(m *Model) {
		m.renderer = r
	}
}

// WithResolver turns preview references into absolute URLs.
func WithResolver(fn func(ref string) string) Option {
	return func(m *Model) {
		if fn != nil {
			m.resolve = fn
		}
	}
}

// WithOpener replaces the external preview viewer.
func WithOpener(o *preview.Opener) Option {
	return func(m *Model) {
		if o != nil {
			m.opener = o
		}
	}
}

// WithModelLogger sets the logger used for UI-level events.
func WithModelLogger(logger *logging.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	return ti
}

// Init loads the first document.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		msg.RunOp(m.ctx, "next", m.session.LoadNext),
	)
}

// applyConfig rebuilds the keymap and styles from cfg. Invalid key overrides
// are reported in the status bar and the defaults stay in place for them.
func (m *Model) applyConfig(cfg *config.Config) {
	km := keymap.DefaultKeymap()
	if err := km.ApplyOverrides(cfg.Keys); err != nil {
		m.logger.Warn("ignoring key overrides", "error", err.Error())
		m.setStatusError(err.Error())
	}
	m.keymap = km
	m.styles = styles.ForTheme(cfg.TUI.Theme)
	m.editorPercent = cfg.TUI.EditorWidthPercent
	if m.editorPercent < config.MinEditorWidthPercent || m.editorPercent > config.MaxEditorWidthPercent {
		m.editorPercent = config.DefaultEditorWidthPercent
	}
	m.layout()
}

// formInput is what a submission would carry right now.
func (m Model) formInput() review.FormInput {
	return review.FormInput{
		Title:   m.title.Value(),
		Date:    m.date.Value(),
		Content: m.editor.Value(),
	}
}

func (m *Model) setFocus(f field) tea.Cmd {
	m.focus = f
	m.title.Blur()
	m.date.Blur()
	m.category.Blur()
	m.author.Blur()
	m.editor.Blur()

	switch f {
	case fieldTitle:
		return m.title.Focus()
	case fieldDate:
		return m.date.Focus()
	case fieldCategory:
		return m.category.Focus()
	case fieldAuthor:
		return m.author.Focus()
	default:
		return m.editor.Focus()
	}
}

func (m *Model) setStatusError(text string) {
	m.status = text
	m.statusErr = true
}

// runOp starts a session operation and counts it as pending until its
// OpDoneMsg arrives.
func (m *Model) runOp(op string, fn func(context.Context) error) tea.Cmd {
	m.pending++
	return msg.RunOp(m.ctx, op, fn)
}
