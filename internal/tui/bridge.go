package tui

import (
	"sync"

	"github.com/Iron-Ham/docreview/internal/docservice"
	"github.com/Iron-Ham/docreview/internal/review"
	"github.com/Iron-Ham/docreview/internal/tui/msg"
	tea "github.com/charmbracelet/bubbletea"
)

// viewBridge adapts the Bubbletea program to review.View. Session calls
// arrive on command goroutines and are forwarded to the event loop as
// messages. Form values are served from a snapshot the model refreshes after
// every update, so CollectFormInput never waits on the loop.
type viewBridge struct {
	mu   sync.Mutex
	send func(tea.Msg)
	form review.FormInput
}

var _ review.View = (*viewBridge)(nil)

func newViewBridge() *viewBridge {
	return &viewBridge{send: func(tea.Msg) {}}
}

// attach routes messages to p. Until then they are dropped.
func (b *viewBridge) attach(send func(tea.Msg)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send = send
}

func (b *viewBridge) dispatch(m tea.Msg) {
	b.mu.Lock()
	send := b.send
	b.mu.Unlock()
	send(m)
}

// storeForm records the model's current form values.
func (b *viewBridge) storeForm(in review.FormInput) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.form = in
}

func (b *viewBridge) Render(doc *docservice.Document, mode review.PreviewMode, previewURL string) {
	b.mu.Lock()
	if doc == nil {
		b.form = review.FormInput{}
	} else {
		b.form = review.FormInput{Date: doc.DateParsed, Content: doc.InitialText}
	}
	b.mu.Unlock()

	b.dispatch(msg.RenderMsg{Doc: doc, Mode: mode, PreviewRef: previewURL})
}

func (b *viewBridge) CollectFormInput() review.FormInput {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.form
}

func (b *viewBridge) SetText(text string) {
	b.mu.Lock()
	b.form.Content = text
	b.mu.Unlock()

	b.dispatch(msg.TextMsg{Text: text})
}

func (b *viewBridge) SetPreview(mode review.PreviewMode, previewURL string) {
	b.dispatch(msg.PreviewMsg{Mode: mode, PreviewRef: previewURL})
}

func (b *viewBridge) SetStatus(text string) {
	b.dispatch(msg.StatusMsg{Text: text})
}

func (b *viewBridge) Alert(text string) {
	b.dispatch(msg.AlertMsg{Text: text})
}
