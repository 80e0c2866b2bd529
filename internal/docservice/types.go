package docservice

import "fmt"

// Document is one pending file awaiting review, as returned by GET /api/next.
type Document struct {
	Basename    string `json:"basename"`
	YearFolder  string `json:"year_folder"`
	InitialText string `json:"initial_text"`
	DateParsed  string `json:"date_parsed"`
	Category    string `json:"category"`
	Author      string `json:"author"`
	HasPDF      bool   `json:"has_pdf"`
	HasDOCX     bool   `json:"has_docx"`
	PDFURL      string `json:"pdf_url,omitempty"`
	DOCXHTMLURL string `json:"docx_html_url,omitempty"`
}

// MetaLine returns the one-line summary shown above the form.
func (d *Document) MetaLine() string {
	return fmt.Sprintf("%s • %s • PDF:%t DOCX:%t", d.Basename, d.DateParsed, d.HasPDF, d.HasDOCX)
}

// NextResult is the decoded /api/next response. When the queue is exhausted
// the service answers {"message": "...", "finished": true} and Document is nil.
type NextResult struct {
	Document *Document
	Finished bool
	Message  string
}

// SubmitKind is the terminal action that ends review of a document.
type SubmitKind string

const (
	KindPublish SubmitKind = "publish"
	KindDraft   SubmitKind = "draft"
	KindSkip    SubmitKind = "skip"
)

// Valid reports whether k names a known endpoint.
func (k SubmitKind) Valid() bool {
	switch k {
	case KindPublish, KindDraft, KindSkip:
		return true
	}
	return false
}

// RequiresMetadata reports whether the kind needs a title and date.
// Skip discards the document without publishing, so it does not.
func (k SubmitKind) RequiresMetadata() bool {
	return k == KindPublish || k == KindDraft
}

// SubmitRequest is the body sent to /api/publish, /api/draft and /api/skip.
type SubmitRequest struct {
	Basename   string `json:"basename"`
	YearFolder string `json:"year_folder"`
	Title      string `json:"title"`
	Date       string `json:"date"`
	Content    string `json:"content"`
}

// SubmitResult is the service's reply to a submit. ID and URL are only set
// when a post was created.
type SubmitResult struct {
	Message string `json:"message"`
	ID      int64  `json:"id,omitempty"`
	URL     string `json:"url,omitempty"`
}

type nextResponse struct {
	Document
	Message  string `json:"message,omitempty"`
	Finished bool   `json:"finished,omitempty"`
}

type textRequest struct {
	Text string `json:"text"`
}

type ocrRequest struct {
	Basename string `json:"basename"`
}

type textResponse struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Error string `json:"error"`
}
