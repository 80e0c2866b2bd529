package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/docreview/internal/preview"
	"github.com/Iron-Ham/docreview/internal/review"
	"github.com/Iron-Ham/docreview/internal/tui/keymap"
	"github.com/Iron-Ham/docreview/internal/util"
)

const (
	appName = "docreview"

	// Rows outside the two panels: header, two form rows, status, help bar.
	chromeRows = 5
	// Border rows and columns of a panel.
	panelFrame = 2
	labelWidth = 10
	minPanelH  = 3
	minInputW  = 8
	dateHintW  = 16
)

// layout sizes the inputs and panels for the current terminal size.
func (m *Model) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}

	m.title.Width = max(m.width-labelWidth-2, minInputW)
	m.date.Width = len(review.DateLayout)
	rest := m.width - 3*labelWidth - m.date.Width - dateHintW
	m.category.Width = max(rest/2-2, minInputW)
	m.author.Width = max(rest/2-2, minInputW)

	leftW, rightW := m.panelWidths()
	panelH := max(m.height-chromeRows-panelFrame, minPanelH)

	m.editor.SetWidth(max(leftW-panelFrame, 1))
	m.editor.SetHeight(panelH)

	// The preview panel spends one row on its tabs.
	m.preview.Width = max(rightW-panelFrame, 1)
	m.preview.Height = max(panelH-1, 1)
}

func (m Model) panelWidths() (int, int) {
	left := m.width * m.editorPercent / 100
	return left, m.width - left
}

// refreshPreview reloads the preview pane from the current rendering.
func (m *Model) refreshPreview() {
	m.preview.SetContent(m.previewContent())
	m.preview.GotoTop()
}

func (m Model) previewContent() string {
	if m.previewRef == "" {
		return preview.NoPreview
	}
	url := m.resolve(m.previewRef)
	if m.renderer == nil {
		return fmt.Sprintf("%s\n\nRendering disabled. Press %s to open it.",
			url, m.keymap.KeysFor(keymap.CmdOpenPreview, keymap.ModeForm))
	}
	if m.rendering == nil {
		return "Loading preview...\n\n" + url
	}
	return m.rendering.Text(m.preview.Width)
}

// View renders the screen.
func (m Model) View() string {
	if !m.ready {
		return "Starting..."
	}

	screen := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderForm(),
		m.renderPanels(),
		m.renderStatus(),
		m.renderHelpBar(),
	)

	switch {
	case m.alert != "":
		return m.overlay(m.renderAlert())
	case m.showHelp:
		return m.overlay(m.renderHelp())
	}
	return screen
}

func (m Model) renderHeader() string {
	s := m.styles
	meta := "No document loaded"
	if m.doc != nil {
		meta = m.doc.MetaLine()
	}
	meta = util.TruncateLine(meta, m.width-len(appName)-2)
	return s.Header.Render(appName) + "  " + s.MetaLine.Render(meta)
}

func (m Model) label(text string, f field) string {
	if m.focus == f {
		return m.styles.FieldLabelFocused.Render(text)
	}
	return m.styles.FieldLabel.Render(text)
}

func (m Model) renderForm() string {
	s := m.styles
	titleRow := m.label("Title", fieldTitle) + m.title.View()

	hint := review.HumanDate(m.date.Value())
	if hint != "" {
		hint = "(" + hint + ")"
	}
	metaRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.label("Date", fieldDate), m.date.View(), " ",
		s.ReadOnlyValue.Width(dateHintW).Render(hint),
		m.label("Category", fieldCategory), m.category.View(), "  ",
		m.label("Author", fieldAuthor), m.author.View(),
	)
	return titleRow + "\n" + metaRow
}

func (m Model) renderPanels() string {
	s := m.styles
	leftW, rightW := m.panelWidths()

	editorPanel := s.Panel
	if m.focus == fieldEditor {
		editorPanel = s.PanelFocused
	}
	left := editorPanel.Width(max(leftW-panelFrame, 1)).Render(m.editor.View())

	tabs := lipgloss.JoinHorizontal(lipgloss.Top,
		m.tab("PDF", review.PreviewPDF),
		m.tab("DOCX", review.PreviewDOCX),
	)
	right := s.Panel.Width(max(rightW-panelFrame, 1)).Render(tabs + "\n" + m.preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m Model) tab(name string, mode review.PreviewMode) string {
	if m.mode == mode {
		return m.styles.TabActive.Render(name)
	}
	return m.styles.TabInactive.Render(name)
}

func (m Model) renderStatus() string {
	s := m.styles
	style := s.StatusBar
	// Status bar padding takes two columns, the spinner two more.
	text := util.TruncateLine(util.SingleLine(m.status), m.width-4)
	switch {
	case m.pending > 0:
		style = s.StatusBusy
		text = m.spinner.View() + " " + text
	case m.statusErr:
		style = s.StatusError
	}
	return style.Width(m.width).Render(text)
}

func (m Model) renderHelpBar() string {
	km := m.keymap
	parts := []string{
		km.KeysFor(keymap.CmdPublish, keymap.ModeForm) + " publish",
		km.KeysFor(keymap.CmdDraft, keymap.ModeForm) + " draft",
		km.KeysFor(keymap.CmdSkip, keymap.ModeForm) + " skip",
		km.KeysFor(keymap.CmdTogglePreview, keymap.ModeForm) + " preview",
		km.KeysFor(keymap.CmdToggleHelp, keymap.ModeForm) + " help",
	}
	return m.styles.HelpBar.Render(util.TruncateLine(strings.Join(parts, " • "), m.width))
}

func (m Model) renderAlert() string {
	s := m.styles
	body := s.AlertTitle.Render("Attention") + "\n" + m.alert + "\n\n" +
		s.Muted.Render(m.keymap.KeysFor(keymap.CmdDismiss, keymap.ModeAlert)+" to dismiss")
	return s.AlertBox.Render(body)
}

func (m Model) renderHelp() string {
	s := m.styles
	var b strings.Builder
	byCategory := m.keymap.GetBindingsByCategory(keymap.ModeForm)
	for i, cat := range m.keymap.GetCategories(keymap.ModeForm) {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(s.HelpCategory.Render(cat))
		b.WriteString("\n")
		for _, kb := range byCategory[cat] {
			b.WriteString(fmt.Sprintf("  %s  %s\n",
				s.HelpKey.Width(14).Render(kb.String()), s.HelpDesc.Render(kb.Description)))
		}
	}
	b.WriteString("\n")
	b.WriteString(s.Muted.Render(m.keymap.KeysFor(keymap.CmdDismiss, keymap.ModeHelp) + " to close"))
	return s.HelpBox.Render(b.String())
}

func (m Model) overlay(box string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
