package msg

import (
	"context"

	"github.com/Iron-Ham/docreview/internal/docservice"
	"github.com/Iron-Ham/docreview/internal/preview"
	tea "github.com/charmbracelet/bubbletea"
)

// RunOp returns a command that runs a session operation off the event loop.
// The session reports progress through its view; the returned OpDoneMsg only
// marks completion.
func RunOp(ctx context.Context, op string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return OpDoneMsg{Op: op, Err: fn(ctx)}
	}
}

// Do returns a command that calls fn and produces no message. It is used for
// session calls that report through the view and must not run on the event
// loop.
func Do(fn func()) tea.Cmd {
	return func() tea.Msg {
		fn()
		return nil
	}
}

// RenderPreview returns a command that renders ref.
func RenderPreview(ctx context.Context, r *preview.Renderer, ref string) tea.Cmd {
	return func() tea.Msg {
		return PreviewRenderedMsg{Ref: ref, Rendering: r.Render(ctx, ref)}
	}
}

// PrefetchPreviews returns a command that warms the cache with every
// rendering doc offers. It produces no message; failures are cached on the
// renderings themselves.
func PrefetchPreviews(ctx context.Context, r *preview.Renderer, doc *docservice.Document) tea.Cmd {
	return func() tea.Msg {
		_ = r.Prefetch(ctx, doc)
		return nil
	}
}

// OpenPreview returns a command that launches the external viewer on url.
func OpenPreview(ctx context.Context, o *preview.Opener, url string) tea.Cmd {
	return func() tea.Msg {
		return PreviewOpenedMsg{URL: url, Err: o.Open(ctx, url)}
	}
}
