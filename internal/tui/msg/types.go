package msg

import (
	"github.com/Iron-Ham/docreview/internal/config"
	"github.com/Iron-Ham/docreview/internal/docservice"
	"github.com/Iron-Ham/docreview/internal/preview"
	"github.com/Iron-Ham/docreview/internal/review"
)

// RenderMsg replaces the displayed document. Doc is nil when the surface
// should be cleared.
type RenderMsg struct {
	Doc        *docservice.Document
	Mode       review.PreviewMode
	PreviewRef string
}

// TextMsg replaces the editor content.
type TextMsg struct {
	Text string
}

// PreviewMsg switches the preview pane.
type PreviewMsg struct {
	Mode       review.PreviewMode
	PreviewRef string
}

// StatusMsg sets the status bar.
type StatusMsg struct {
	Text string
}

// AlertMsg opens the blocking alert modal.
type AlertMsg struct {
	Text string
}

// OpDoneMsg reports that a session operation has returned.
type OpDoneMsg struct {
	Op  string
	Err error
}

// PreviewRenderedMsg carries a finished rendering for Ref.
type PreviewRenderedMsg struct {
	Ref       string
	Rendering *preview.Rendering
}

// PreviewOpenedMsg reports the result of launching the external viewer.
type PreviewOpenedMsg struct {
	URL string
	Err error
}

// ConfigReloadedMsg carries a configuration re-read after the file changed.
type ConfigReloadedMsg struct {
	Config *config.Config
}
