package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/docreview/internal/docservice"
	"github.com/Iron-Ham/docreview/internal/errors"
	"github.com/Iron-Ham/docreview/internal/preview"
	"github.com/Iron-Ham/docreview/internal/review"
	"github.com/Iron-Ham/docreview/internal/tui/keymap"
	"github.com/Iron-Ham/docreview/internal/tui/msg"
)

// Status texts owned by the UI rather than the session.
const (
	statusBusy        = "Still working on the previous action..."
	statusOpened      = "Opened preview in external viewer."
	statusOpenFailed  = "Open preview failed: "
	statusConfigReady = "Configuration reloaded."
)

// Update handles messages and updates the model
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch message := message.(type) {
	case tea.KeyMsg:
		cmd = m.handleKeypress(message)

	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		m.ready = true
		m.layout()
		m.refreshPreview()

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(message)

	case msg.RenderMsg:
		cmd = m.applyRender(message)

	case msg.TextMsg:
		m.editor.SetValue(message.Text)

	case msg.PreviewMsg:
		m.mode = message.Mode
		cmd = m.showPreview(message.PreviewRef)

	case msg.StatusMsg:
		m.status = message.Text
		m.statusErr = false

	case msg.AlertMsg:
		m.alert = message.Text

	case msg.OpDoneMsg:
		m.finishOp(message)

	case msg.PreviewRenderedMsg:
		// Results for a preview no longer on screen only warm the cache.
		if message.Ref == m.previewRef {
			m.rendering = message.Rendering
			m.refreshPreview()
		}

	case msg.PreviewOpenedMsg:
		if message.Err != nil {
			m.setStatusError(statusOpenFailed + message.Err.Error())
		} else {
			m.status = statusOpened
			m.statusErr = false
		}

	case msg.ConfigReloadedMsg:
		m.status = statusConfigReady
		m.statusErr = false
		m.applyConfig(message.Config)
		m.refreshPreview()
	}

	m.bridge.storeForm(m.formInput())
	return m, cmd
}

// inputMode returns the keymap mode for the current overlay state.
func (m Model) inputMode() keymap.Mode {
	switch {
	case m.alert != "":
		return keymap.ModeAlert
	case m.showHelp:
		return keymap.ModeHelp
	default:
		return keymap.ModeForm
	}
}

// handleKeypress processes keyboard input
func (m *Model) handleKeypress(key tea.KeyMsg) tea.Cmd {
	mode := m.inputMode()
	command, bound := m.keymap.GetBinding(key, mode)

	// Overlays swallow everything they do not bind.
	if mode != keymap.ModeForm {
		if !bound {
			return nil
		}
		return m.execute(command)
	}

	if bound {
		return m.execute(command)
	}
	return m.updateFocused(key)
}

func (m *Model) execute(command keymap.Command) tea.Cmd {
	switch command {
	case keymap.CmdPublish:
		return m.submit(docservice.KindPublish)
	case keymap.CmdDraft:
		return m.submit(docservice.KindDraft)
	case keymap.CmdSkip:
		return m.submit(docservice.KindSkip)
	case keymap.CmdNext:
		return m.runOp("next", m.session.LoadNext)
	case keymap.CmdCleanup:
		return m.runOp("cleanup", m.session.Cleanup)
	case keymap.CmdReOCR:
		return m.runOp("ocr", m.session.ReOCR)

	// The session reports preview changes through the bridge, which waits on
	// this loop, so these calls run as commands.
	case keymap.CmdPreviewPDF:
		session := m.session
		return msg.Do(func() { session.SetPreview(review.PreviewPDF) })
	case keymap.CmdPreviewDOCX:
		session := m.session
		return msg.Do(func() { session.SetPreview(review.PreviewDOCX) })
	case keymap.CmdTogglePreview:
		return msg.Do(m.session.TogglePreview)

	case keymap.CmdOpenPreview:
		if m.previewRef == "" {
			m.status = preview.NoPreview
			m.statusErr = false
			return nil
		}
		return msg.OpenPreview(m.ctx, m.opener, m.resolve(m.previewRef))

	case keymap.CmdScrollUp:
		m.preview.HalfViewUp()
	case keymap.CmdScrollDown:
		m.preview.HalfViewDown()

	case keymap.CmdFocusNext:
		return m.setFocus((m.focus + 1) % fieldCount)
	case keymap.CmdFocusPrev:
		return m.setFocus((m.focus + fieldCount - 1) % fieldCount)

	case keymap.CmdToggleHelp:
		m.showHelp = !m.showHelp
	case keymap.CmdDismiss:
		if m.alert != "" {
			m.alert = ""
		} else {
			m.showHelp = false
		}
	case keymap.CmdQuit:
		return tea.Quit
	}
	return nil
}

func (m *Model) submit(kind docservice.SubmitKind) tea.Cmd {
	session := m.session
	return m.runOp(string(kind), func(ctx context.Context) error {
		return session.Submit(ctx, kind)
	})
}

func (m *Model) finishOp(done msg.OpDoneMsg) {
	if m.pending > 0 {
		m.pending--
	}
	err := done.Err
	switch {
	case err == nil:
	case errors.Is(err, errors.ErrBusy):
		m.status = statusBusy
		m.statusErr = false
	case errors.GetSeverity(err) == errors.SeverityWarning:
		// Validation problems were already raised as an alert.
	default:
		// The session already put the failure text in the status bar.
		m.statusErr = true
	}
	if err != nil {
		m.logger.Debug("operation finished with error", "operation", done.Op, "error", err.Error())
	}
}

// updateFocused forwards a key to the focused input.
func (m *Model) updateFocused(key tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case fieldTitle:
		m.title, cmd = m.title.Update(key)
	case fieldDate:
		m.date, cmd = m.date.Update(key)
	case fieldCategory:
		m.category, cmd = m.category.Update(key)
	case fieldAuthor:
		m.author, cmd = m.author.Update(key)
	default:
		m.editor, cmd = m.editor.Update(key)
	}
	return cmd
}

// applyRender mirrors a document the session has just loaded or cleared.
func (m *Model) applyRender(r msg.RenderMsg) tea.Cmd {
	m.doc = r.Doc
	m.mode = r.Mode
	m.title.SetValue("")

	if r.Doc == nil {
		m.date.SetValue("")
		m.category.SetValue("")
		m.author.SetValue("")
		m.editor.SetValue("")
	} else {
		m.date.SetValue(r.Doc.DateParsed)
		m.category.SetValue(r.Doc.Category)
		m.author.SetValue(r.Doc.Author)
		m.editor.SetValue(r.Doc.InitialText)
	}
	focus := m.setFocus(fieldTitle)

	if m.renderer == nil {
		return tea.Batch(focus, m.showPreview(r.PreviewRef))
	}

	basename := ""
	if r.Doc != nil {
		basename = r.Doc.Basename
	}
	m.renderer.Reset(basename)

	show := m.showPreview(r.PreviewRef)
	if r.Doc == nil {
		return tea.Batch(focus, show)
	}
	// Render what is on screen first, then warm the other format.
	return tea.Batch(focus, tea.Sequence(show, msg.PrefetchPreviews(m.ctx, m.renderer, r.Doc)))
}

// showPreview points the preview pane at ref, rendering it if needed.
func (m *Model) showPreview(ref string) tea.Cmd {
	m.previewRef = ref
	m.rendering = nil

	var cmd tea.Cmd
	if ref != "" && m.renderer != nil {
		if rend, ok := m.renderer.Cached(ref); ok {
			m.rendering = rend
		} else {
			cmd = msg.RenderPreview(m.ctx, m.renderer, ref)
		}
	}
	m.refreshPreview()
	return cmd
}
