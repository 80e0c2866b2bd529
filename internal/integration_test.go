// Package internal contains integration tests that run a review session
// against the real HTTP client and an in-process Document Service.
package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Iron-Ham/docreview/internal/docservice"
	"github.com/Iron-Ham/docreview/internal/errors"
	"github.com/Iron-Ham/docreview/internal/preview"
	"github.com/Iron-Ham/docreview/internal/review"
	"github.com/Iron-Ham/docreview/internal/testutil"
)

// screen records what a session shows.
type screen struct {
	mu      sync.Mutex
	doc     *docservice.Document
	mode    review.PreviewMode
	preview string
	status  string
	alerts  []string
	form    review.FormInput
}

func (v *screen) Render(doc *docservice.Document, mode review.PreviewMode, url string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.doc, v.mode, v.preview = doc, mode, url
	v.form = review.FormInput{}
	if doc != nil {
		v.form.Date = doc.DateParsed
		v.form.Content = doc.InitialText
	}
}

func (v *screen) CollectFormInput() review.FormInput {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.form
}

func (v *screen) SetText(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.form.Content = text
}

func (v *screen) SetPreview(mode review.PreviewMode, url string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.mode, v.preview = mode, url
}

func (v *screen) SetStatus(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = text
}

func (v *screen) Alert(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.alerts = append(v.alerts, text)
}

func (v *screen) setTitle(title string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.form.Title = title
}

func TestReviewWorkflowOverHTTP(t *testing.T) {
	ctx := context.Background()
	svc := testutil.NewDocumentService(t,
		map[string]any{
			"basename": "doc1", "year_folder": "2023", "initial_text": "hello   world",
			"date_parsed": "2023-05-01", "has_pdf": true, "has_docx": false, "pdf_url": "/p/doc1.pdf",
		},
		map[string]any{
			"basename": "doc2", "year_folder": "2024", "initial_text": "",
			"date_parsed": "", "has_pdf": false, "has_docx": true, "docx_html_url": "/h/doc2.html",
		},
	)
	svc.Failures = map[string]testutil.Failure{
		"/api/ocr": {Status: http.StatusBadGateway, Error: "OCR engine unavailable"},
	}

	client, err := docservice.NewHTTPClient(svc.URL())
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}
	view := &screen{}
	session := review.New(client, view)

	// Load doc1: PDF only.
	if err := session.LoadNext(ctx); err != nil {
		t.Fatalf("LoadNext: %v", err)
	}
	if view.doc == nil || view.doc.Basename != "doc1" || view.preview != "/p/doc1.pdf" || view.status != review.StatusReady {
		t.Fatalf("after load: doc=%v preview=%q status=%q", view.doc, view.preview, view.status)
	}

	// DOCX is unavailable, so the PDF stays on screen while the mode changes.
	session.TogglePreview()
	if view.mode != review.PreviewDOCX || view.preview != "/p/doc1.pdf" {
		t.Errorf("after toggle: mode=%s preview=%q", view.mode, view.preview)
	}

	// Cleanup goes through the service.
	if err := session.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if view.form.Content != "hello world" {
		t.Errorf("content after cleanup = %q", view.form.Content)
	}

	// A server error surfaces in the status bar and leaves the document alone.
	err = session.ReOCR(ctx)
	var svcErr *errors.ServiceError
	if !errors.As(err, &svcErr) || svcErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("ReOCR err = %v, want a 502 ServiceError", err)
	}
	if !strings.Contains(view.status, "OCR engine unavailable") || session.Current().Basename != "doc1" {
		t.Errorf("after failed OCR: status=%q", view.status)
	}

	// Drafting without a title never reaches the service.
	if err := session.Submit(ctx, docservice.KindDraft); err == nil {
		t.Fatal("draft without title should fail")
	}
	if svc.Count("/api/draft") != 0 || len(view.alerts) != 1 || view.alerts[0] != review.MsgTitleDateRequired {
		t.Fatalf("draft requests=%d alerts=%v", svc.Count("/api/draft"), view.alerts)
	}

	// Publishing sends the form and loads doc2, resetting the mode to PDF.
	view.setTitle("  Hello  ")
	if err := session.Submit(ctx, docservice.KindPublish); err != nil {
		t.Fatalf("Submit publish: %v", err)
	}
	published := svc.Bodies("/api/publish")
	if len(published) != 1 {
		t.Fatalf("publish bodies = %v", published)
	}
	want := map[string]string{"basename": "doc1", "year_folder": "2023", "title": "Hello", "date": "2023-05-01", "content": "hello world"}
	for k, v := range want {
		if published[0][k] != v {
			t.Errorf("publish %s = %q, want %q", k, published[0][k], v)
		}
	}
	if session.Current().Basename != "doc2" || view.mode != review.PreviewPDF || view.preview != "/h/doc2.html" {
		t.Errorf("after publish: doc=%v mode=%s preview=%q", session.Current(), view.mode, view.preview)
	}

	// doc2 has no PDF: re-OCR is refused locally.
	before := svc.Count("/api/ocr")
	if err := session.ReOCR(ctx); err == nil {
		t.Error("ReOCR without PDF should fail")
	}
	if svc.Count("/api/ocr") != before {
		t.Error("ReOCR without PDF should not call the service")
	}

	// Skipping needs no title or date and drains the queue.
	if err := session.Submit(ctx, docservice.KindSkip); err != nil {
		t.Fatalf("Submit skip: %v", err)
	}
	if skipped := svc.Bodies("/api/skip"); len(skipped) != 1 || skipped[0]["title"] != "" {
		t.Errorf("skip bodies = %v", skipped)
	}
	if session.Current() != nil || view.doc != nil || view.status != "All done!" {
		t.Errorf("after skip: current=%v status=%q", session.Current(), view.status)
	}
}

func TestPreviewRendererOverHTTP(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/h/doc.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><h1>Minutes</h1><p>The board met on Tuesday.</p><ul><li>Budget</li></ul></body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := docservice.NewHTTPClient(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	r := preview.NewRenderer(client)
	r.Reset("doc")

	rend := r.Render(context.Background(), "/h/doc.html")
	text := rend.Text(80)
	for _, want := range []string{"Minutes", "The board met on Tuesday.", "Budget"} {
		if !strings.Contains(text, want) {
			t.Errorf("rendering missing %q:\n%s", want, text)
		}
	}
	if cached, ok := r.Cached("/h/doc.html"); !ok || cached != rend {
		t.Error("rendering should be cached for the current document")
	}
}
