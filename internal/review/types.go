// Package review holds the single-document review workflow: which document is
// loaded, which preview is selected, and every operator action against the
// Document Service.
package review

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/docreview/internal/docservice"
)

// PreviewMode selects which rendering of the current document is shown.
type PreviewMode string

const (
	PreviewPDF  PreviewMode = "pdf"
	PreviewDOCX PreviewMode = "docx"
)

// String returns the string representation of the mode.
func (m PreviewMode) String() string {
	return string(m)
}

// Valid reports whether m is a known mode.
func (m PreviewMode) Valid() bool {
	return m == PreviewPDF || m == PreviewDOCX
}

// Other returns the alternative rendering.
func (m PreviewMode) Other() PreviewMode {
	if m == PreviewDOCX {
		return PreviewPDF
	}
	return PreviewDOCX
}

// ParsePreviewMode parses "pdf" or "docx", case-insensitively.
func ParsePreviewMode(s string) (PreviewMode, error) {
	m := PreviewMode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown preview mode %q (want pdf or docx)", s)
	}
	return m, nil
}

// FormInput is what the operator has typed into the form. Category and author
// are displayed for reference but are not part of a submission.
type FormInput struct {
	Title   string `validate:"required"`
	Date    string `validate:"required,isodate"`
	Content string
}

// View is the display surface a Session drives. Implementations must be safe
// to call from a goroutine other than the one running the UI loop.
type View interface {
	// Render replaces every displayed document field and the preview.
	// A nil doc clears the surface.
	Render(doc *docservice.Document, mode PreviewMode, previewURL string)

	// CollectFormInput returns the current form values.
	CollectFormInput() FormInput

	// SetText replaces the editor content only.
	SetText(text string)

	// SetPreview refreshes only the preview.
	SetPreview(mode PreviewMode, previewURL string)

	// SetStatus shows a non-blocking status message.
	SetStatus(msg string)

	// Alert shows a warning the operator must acknowledge.
	Alert(msg string)
}

// SelectPreviewURL picks the preview for doc: the one matching mode when that
// format is available, otherwise whichever format is available, otherwise "".
func SelectPreviewURL(doc *docservice.Document, mode PreviewMode) string {
	if doc == nil {
		return ""
	}
	pdf, docx := doc.PDFURL, doc.DOCXHTMLURL
	switch {
	case mode == PreviewPDF && pdf != "":
		return pdf
	case mode == PreviewDOCX && docx != "":
		return docx
	case pdf != "":
		return pdf
	default:
		return docx
	}
}
