package review

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Iron-Ham/docreview/internal/docservice"
	"github.com/Iron-Ham/docreview/internal/errors"
)

// fakeService records every call and replays scripted responses.
type fakeService struct {
	mu sync.Mutex

	next      []*docservice.NextResult
	nextErr   error
	cleanText string
	cleanErr  error
	ocrText   string
	ocrErr    error
	submitRes *docservice.SubmitResult
	submitErr error

	// block, when set, holds every call until it is closed.
	block   chan struct{}
	entered chan struct{}

	calls      []string
	submitted  []docservice.SubmitRequest
	submitKind []docservice.SubmitKind
	cleaned    []string
	ocrd       []string
}

func (f *fakeService) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
}

func (f *fakeService) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeService) Next(ctx context.Context) (*docservice.NextResult, error) {
	f.record("next")
	if f.nextErr != nil {
		return nil, f.nextErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.next) == 0 {
		return &docservice.NextResult{Finished: true, Message: "All done!"}, nil
	}
	res := f.next[0]
	f.next = f.next[1:]
	return res, nil
}

func (f *fakeService) Cleanup(ctx context.Context, text string) (string, error) {
	f.record("cleanup")
	f.mu.Lock()
	f.cleaned = append(f.cleaned, text)
	f.mu.Unlock()
	return f.cleanText, f.cleanErr
}

func (f *fakeService) OCR(ctx context.Context, basename string) (string, error) {
	f.record("ocr")
	f.mu.Lock()
	f.ocrd = append(f.ocrd, basename)
	f.mu.Unlock()
	return f.ocrText, f.ocrErr
}

func (f *fakeService) Submit(ctx context.Context, kind docservice.SubmitKind, req docservice.SubmitRequest) (*docservice.SubmitResult, error) {
	f.record(string(kind))
	f.mu.Lock()
	f.submitted = append(f.submitted, req)
	f.submitKind = append(f.submitKind, kind)
	f.mu.Unlock()
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	if f.submitRes == nil {
		return &docservice.SubmitResult{}, nil
	}
	return f.submitRes, nil
}

func (f *fakeService) ProgressLog(ctx context.Context) ([]byte, error) {
	f.record("log")
	return nil, nil
}

// fakeView captures everything the session displays.
type fakeView struct {
	mu sync.Mutex

	form FormInput

	rendered   []*docservice.Document
	renderMode PreviewMode
	previewURL string
	text       string
	statuses   []string
	alerts     []string
}

func (v *fakeView) Render(doc *docservice.Document, mode PreviewMode, previewURL string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rendered = append(v.rendered, doc)
	v.renderMode = mode
	v.previewURL = previewURL
	if doc != nil {
		v.text = doc.InitialText
		v.form = FormInput{Date: doc.DateParsed, Content: doc.InitialText}
	} else {
		v.text = ""
		v.form = FormInput{}
	}
}

func (v *fakeView) CollectFormInput() FormInput {
	v.mu.Lock()
	defer v.mu.Unlock()
	in := v.form
	in.Content = v.text
	return in
}

func (v *fakeView) SetText(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.text = text
}

func (v *fakeView) SetPreview(mode PreviewMode, previewURL string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.renderMode = mode
	v.previewURL = previewURL
}

func (v *fakeView) SetStatus(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.statuses = append(v.statuses, msg)
}

func (v *fakeView) Alert(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.alerts = append(v.alerts, msg)
}

func (v *fakeView) lastStatus() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.statuses) == 0 {
		return ""
	}
	return v.statuses[len(v.statuses)-1]
}

func doc1() *docservice.Document {
	return &docservice.Document{
		Basename:    "doc1",
		YearFolder:  "1975",
		InitialText: "Hello",
		DateParsed:  "1975-03-01",
		Category:    "Column",
		Author:      "Staff",
		HasPDF:      true,
		PDFURL:      "/p/doc1.pdf",
	}
}

func bothFormats() *docservice.Document {
	return &docservice.Document{
		Basename:    "doc2",
		YearFolder:  "1976",
		InitialText: "World",
		HasPDF:      true,
		HasDOCX:     true,
		PDFURL:      "/p/doc2.pdf",
		DOCXHTMLURL: "/h/doc2.html",
	}
}

func loaded(t *testing.T, docs ...*docservice.Document) (*Session, *fakeService, *fakeView) {
	t.Helper()
	svc := &fakeService{}
	for _, d := range docs {
		svc.next = append(svc.next, &docservice.NextResult{Document: d})
	}
	view := &fakeView{}
	s := New(svc, view)
	if err := s.LoadNext(context.Background()); err != nil {
		t.Fatalf("LoadNext: %v", err)
	}
	return s, svc, view
}

func TestLoadNext_PopulatesView(t *testing.T) {
	s, _, view := loaded(t, doc1())

	if s.Current() == nil || s.Current().Basename != "doc1" {
		t.Fatalf("Current() = %+v", s.Current())
	}
	if s.Mode() != PreviewPDF {
		t.Errorf("Mode() = %q, want pdf", s.Mode())
	}
	if view.previewURL != "/p/doc1.pdf" {
		t.Errorf("preview = %q, want /p/doc1.pdf", view.previewURL)
	}
	if view.text != "Hello" {
		t.Errorf("editor = %q, want Hello", view.text)
	}
	if view.form.Title != "" {
		t.Errorf("title should be cleared, got %q", view.form.Title)
	}
	want := []string{StatusLoading, StatusReady}
	if len(view.statuses) != 2 || view.statuses[0] != want[0] || view.statuses[1] != want[1] {
		t.Errorf("statuses = %q, want %q", view.statuses, want)
	}
}

func TestLoadNext_ResetsModeToPDF(t *testing.T) {
	s, _, _ := loaded(t, bothFormats(), bothFormats())

	s.SetPreview(PreviewDOCX)
	if s.Mode() != PreviewDOCX {
		t.Fatalf("Mode() = %q, want docx", s.Mode())
	}

	if err := s.LoadNext(context.Background()); err != nil {
		t.Fatalf("LoadNext: %v", err)
	}
	if s.Mode() != PreviewPDF {
		t.Errorf("Mode() after load = %q, want pdf", s.Mode())
	}
}

func TestLoadNext_Failure(t *testing.T) {
	s, svc, view := loaded(t, doc1())

	svc.nextErr = errors.NewServiceError("next", 500, "SOURCE_ROOT not configured in .env")
	err := s.LoadNext(context.Background())

	var svcErr *errors.ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected *ServiceError, got %v", err)
	}
	if s.Current() != nil {
		t.Error("current should be unset after a failed load")
	}
	if got := view.lastStatus(); got != "Error loading document: SOURCE_ROOT not configured in .env" {
		t.Errorf("status = %q", got)
	}
	if svc.callCount() != 2 {
		t.Errorf("calls = %d, failed load must not retry", svc.callCount())
	}
}

func TestLoadNext_QueueFinished(t *testing.T) {
	s, _, view := loaded(t, doc1())

	if err := s.LoadNext(context.Background()); err != nil {
		t.Fatalf("LoadNext: %v", err)
	}
	if s.Current() != nil {
		t.Error("current should be cleared when the queue is finished")
	}
	if got := view.lastStatus(); got != "All done!" {
		t.Errorf("status = %q, want All done!", got)
	}
	if last := view.rendered[len(view.rendered)-1]; last != nil {
		t.Errorf("last render = %+v, want nil", last)
	}
	if view.previewURL != "" {
		t.Errorf("preview = %q, want empty", view.previewURL)
	}
}

func TestPreviewURL(t *testing.T) {
	pdfOnly := doc1()
	docxOnly := &docservice.Document{Basename: "d", HasDOCX: true, DOCXHTMLURL: "/h/d.html"}
	neither := &docservice.Document{Basename: "n"}

	tests := []struct {
		name string
		doc  *docservice.Document
		mode PreviewMode
		want string
	}{
		{"pdf mode with both", bothFormats(), PreviewPDF, "/p/doc2.pdf"},
		{"docx mode with both", bothFormats(), PreviewDOCX, "/h/doc2.html"},
		{"docx mode falls back to pdf", pdfOnly, PreviewDOCX, "/p/doc1.pdf"},
		{"pdf mode falls back to docx", docxOnly, PreviewPDF, "/h/d.html"},
		{"neither available", neither, PreviewPDF, ""},
		{"neither available docx", neither, PreviewDOCX, ""},
		{"no document", nil, PreviewPDF, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectPreviewURL(tt.doc, tt.mode); got != tt.want {
				t.Errorf("SelectPreviewURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSetPreview_FallbackKeepsMode(t *testing.T) {
	s, svc, view := loaded(t, doc1())
	before := view.text

	s.SetPreview(PreviewDOCX)

	if s.Mode() != PreviewDOCX {
		t.Errorf("Mode() = %q, want docx", s.Mode())
	}
	if s.PreviewURL() != "/p/doc1.pdf" || view.previewURL != "/p/doc1.pdf" {
		t.Errorf("preview = %q / %q, want /p/doc1.pdf", s.PreviewURL(), view.previewURL)
	}
	if view.renderMode != PreviewDOCX {
		t.Errorf("view mode = %q, want docx", view.renderMode)
	}
	if view.text != before || len(view.rendered) != 1 {
		t.Error("SetPreview must not reload the document text")
	}
	if svc.callCount() != 1 {
		t.Errorf("SetPreview made a service call")
	}

	s.TogglePreview()
	if s.Mode() != PreviewPDF {
		t.Errorf("TogglePreview: Mode() = %q, want pdf", s.Mode())
	}
}

func TestSubmit_RequiresTitleAndDate(t *testing.T) {
	tests := []struct {
		name  string
		kind  docservice.SubmitKind
		title string
		date  string
		alert string
	}{
		{"publish without title", docservice.KindPublish, "", "1975-03-01", MsgTitleDateRequired},
		{"publish whitespace title", docservice.KindPublish, "   ", "1975-03-01", MsgTitleDateRequired},
		{"publish without date", docservice.KindPublish, "Title", "", MsgTitleDateRequired},
		{"draft without title", docservice.KindDraft, "", "1975-03-01", MsgTitleDateRequired},
		{"draft without either", docservice.KindDraft, "", "", MsgTitleDateRequired},
		{"draft bad date", docservice.KindDraft, "Title", "03/01/1975", MsgDateFormat},
		{"publish impossible date", docservice.KindPublish, "Title", "1975-02-30", MsgDateFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, svc, view := loaded(t, doc1())
			view.form.Title = tt.title
			view.form.Date = tt.date
			statuses := len(view.statuses)

			err := s.Submit(context.Background(), tt.kind)
			if !errors.Is(err, errors.ErrInvalidInput) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if svc.callCount() != 1 {
				t.Errorf("service calls = %d, want only the initial load", svc.callCount())
			}
			if len(view.alerts) != 1 || view.alerts[0] != tt.alert {
				t.Errorf("alerts = %q, want %q", view.alerts, tt.alert)
			}
			if len(view.statuses) != statuses {
				t.Errorf("status changed on validation failure: %q", view.statuses[statuses:])
			}
			if s.Current() == nil || s.Current().Basename != "doc1" {
				t.Error("document should stay loaded")
			}
		})
	}
}

func TestSubmit_SkipWithEmptyFields(t *testing.T) {
	s, svc, view := loaded(t, doc1())
	view.form.Date = ""
	view.text = "edited"

	if err := s.Submit(context.Background(), docservice.KindSkip); err != nil {
		t.Fatalf("Submit(skip): %v", err)
	}
	if len(svc.submitted) != 1 {
		t.Fatalf("submitted = %d, want 1", len(svc.submitted))
	}
	want := docservice.SubmitRequest{Basename: "doc1", YearFolder: "1975", Content: "edited"}
	if svc.submitted[0] != want {
		t.Errorf("request = %+v, want %+v", svc.submitted[0], want)
	}
	if len(view.alerts) != 0 {
		t.Errorf("unexpected alerts %q", view.alerts)
	}
}

func TestSubmit_PublishThenLoadsNext(t *testing.T) {
	s, svc, view := loaded(t, doc1(), bothFormats())
	svc.submitRes = &docservice.SubmitResult{Message: "Published.", ID: 7}
	view.form.Title = "  A Title  "
	view.text = "body"

	if err := s.Submit(context.Background(), docservice.KindPublish); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	want := docservice.SubmitRequest{
		Basename: "doc1", YearFolder: "1975", Title: "A Title", Date: "1975-03-01", Content: "body",
	}
	if svc.submitted[0] != want {
		t.Errorf("request = %+v, want %+v", svc.submitted[0], want)
	}
	if svc.submitKind[0] != docservice.KindPublish {
		t.Errorf("kind = %q", svc.submitKind[0])
	}

	wantCalls := []string{"next", "publish", "next"}
	if len(svc.calls) != len(wantCalls) {
		t.Fatalf("calls = %q, want %q", svc.calls, wantCalls)
	}
	for i := range wantCalls {
		if svc.calls[i] != wantCalls[i] {
			t.Errorf("calls = %q, want %q", svc.calls, wantCalls)
		}
	}

	if s.Current().Basename != "doc2" {
		t.Errorf("Current() = %q, want doc2", s.Current().Basename)
	}
	found := false
	for _, st := range view.statuses {
		if st == "Published." {
			found = true
		}
	}
	if !found {
		t.Errorf("statuses %q missing server message", view.statuses)
	}
	if s.Busy() {
		t.Error("session still busy after submit")
	}
}

func TestSubmit_DraftFallbackMessage(t *testing.T) {
	s, _, view := loaded(t, doc1())
	view.form.Title = "T"

	if err := s.Submit(context.Background(), docservice.KindDraft); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	var sawSaving, sawDone bool
	for _, st := range view.statuses {
		sawSaving = sawSaving || st == "Saving draft..."
		sawDone = sawDone || st == StatusSubmitDone
	}
	if !sawSaving || !sawDone {
		t.Errorf("statuses = %q", view.statuses)
	}
}

func TestSubmit_NoDocumentIsNoop(t *testing.T) {
	svc := &fakeService{}
	view := &fakeView{}
	s := New(svc, view)

	if err := s.Submit(context.Background(), docservice.KindPublish); err != nil {
		t.Errorf("Submit() = %v, want nil", err)
	}
	if svc.callCount() != 0 || len(view.alerts) != 0 || len(view.statuses) != 0 {
		t.Error("Submit without a document should do nothing")
	}
}

func TestSubmit_ServiceFailure(t *testing.T) {
	s, svc, view := loaded(t, doc1())
	view.form.Title = "T"
	svc.submitErr = errors.NewServiceError("publish", 502, "WordPress unreachable")

	err := s.Submit(context.Background(), docservice.KindPublish)
	if !errors.IsRetryable(err) {
		t.Errorf("expected retryable service error, got %v", err)
	}
	if got := view.lastStatus(); got != "Publish failed: WordPress unreachable" {
		t.Errorf("status = %q", got)
	}
	if s.Current() == nil || s.Current().Basename != "doc1" {
		t.Error("failed submit must keep the document loaded")
	}
	if svc.callCount() != 2 {
		t.Errorf("calls = %q, failed submit must not load next", svc.calls)
	}
	if s.Busy() {
		t.Error("session still busy after failure")
	}
}

func TestSubmit_UnknownKind(t *testing.T) {
	s, svc, _ := loaded(t, doc1())
	if err := s.Submit(context.Background(), docservice.SubmitKind("archive")); err == nil {
		t.Error("expected error for unknown kind")
	}
	if svc.callCount() != 1 {
		t.Error("unknown kind must not call the service")
	}
}

func TestReOCR(t *testing.T) {
	t.Run("no document", func(t *testing.T) {
		svc := &fakeService{}
		view := &fakeView{}
		s := New(svc, view)

		err := s.ReOCR(context.Background())
		if !errors.Is(err, errors.ErrNoPDF) {
			t.Errorf("expected ErrNoPDF, got %v", err)
		}
		if svc.callCount() != 0 {
			t.Error("ReOCR without document called the service")
		}
		if len(view.alerts) != 1 || view.alerts[0] != MsgNoPDF {
			t.Errorf("alerts = %q", view.alerts)
		}
	})

	t.Run("document without pdf", func(t *testing.T) {
		s, svc, view := loaded(t, &docservice.Document{Basename: "d", HasDOCX: true, DOCXHTMLURL: "/h/d.html"})

		if err := s.ReOCR(context.Background()); !errors.Is(err, errors.ErrNoPDF) {
			t.Errorf("expected ErrNoPDF, got %v", err)
		}
		if svc.callCount() != 1 {
			t.Error("ReOCR without PDF called the service")
		}
		if len(view.alerts) != 1 {
			t.Errorf("alerts = %q", view.alerts)
		}
	})

	t.Run("replaces editor text", func(t *testing.T) {
		s, svc, view := loaded(t, doc1())
		svc.ocrText = "fresh text"

		if err := s.ReOCR(context.Background()); err != nil {
			t.Fatalf("ReOCR: %v", err)
		}
		if svc.ocrd[0] != "doc1" {
			t.Errorf("OCR basename = %q", svc.ocrd[0])
		}
		if view.text != "fresh text" {
			t.Errorf("editor = %q", view.text)
		}
		if view.lastStatus() != StatusOCRDone {
			t.Errorf("status = %q", view.lastStatus())
		}
	})

	t.Run("empty result clears editor", func(t *testing.T) {
		s, _, view := loaded(t, doc1())
		if err := s.ReOCR(context.Background()); err != nil {
			t.Fatalf("ReOCR: %v", err)
		}
		if view.text != "" {
			t.Errorf("editor = %q, want empty", view.text)
		}
	})

	t.Run("service failure is shown", func(t *testing.T) {
		s, svc, view := loaded(t, doc1())
		svc.ocrErr = errors.NewServiceError("ocr", 404, "Not found: /data/doc1.pdf")

		if err := s.ReOCR(context.Background()); err == nil {
			t.Fatal("expected error")
		}
		if view.lastStatus() != "Re-OCR failed: Not found: /data/doc1.pdf" {
			t.Errorf("status = %q", view.lastStatus())
		}
		if view.text != "Hello" {
			t.Errorf("editor changed on failure: %q", view.text)
		}
	})
}

func TestCleanup(t *testing.T) {
	t.Run("works without a document", func(t *testing.T) {
		svc := &fakeService{cleanText: "clean"}
		view := &fakeView{text: "dirty-\ntext"}
		s := New(svc, view)

		if err := s.Cleanup(context.Background()); err != nil {
			t.Fatalf("Cleanup: %v", err)
		}
		if svc.cleaned[0] != "dirty-\ntext" {
			t.Errorf("sent %q", svc.cleaned[0])
		}
		if view.text != "clean" {
			t.Errorf("editor = %q", view.text)
		}
		if view.lastStatus() != StatusCleaned {
			t.Errorf("status = %q", view.lastStatus())
		}
	})

	t.Run("failure is shown not thrown away", func(t *testing.T) {
		svc := &fakeService{cleanErr: errors.NewTransportError("cleanup", errors.New("connection refused"))}
		view := &fakeView{text: "keep"}
		s := New(svc, view)

		if err := s.Cleanup(context.Background()); err == nil {
			t.Fatal("expected error")
		}
		if view.text != "keep" {
			t.Errorf("editor = %q, want unchanged", view.text)
		}
		if view.lastStatus() != "Cleanup failed: connection refused" {
			t.Errorf("status = %q", view.lastStatus())
		}
	})
}

func TestBusyGuard(t *testing.T) {
	svc := &fakeService{
		next:    []*docservice.NextResult{{Document: doc1()}},
		block:   make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	view := &fakeView{}
	s := New(svc, view)

	done := make(chan error, 1)
	go func() { done <- s.LoadNext(context.Background()) }()

	select {
	case <-svc.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first call never reached the service")
	}

	if !s.Busy() {
		t.Error("Busy() = false while a call is in flight")
	}
	if err := s.Cleanup(context.Background()); !errors.Is(err, errors.ErrBusy) {
		t.Errorf("Cleanup while busy = %v, want ErrBusy", err)
	}
	if err := s.LoadNext(context.Background()); !errors.Is(err, errors.ErrBusy) {
		t.Errorf("LoadNext while busy = %v, want ErrBusy", err)
	}

	// Preview switching stays available.
	s.SetPreview(PreviewDOCX)

	close(svc.block)
	if err := <-done; err != nil {
		t.Fatalf("LoadNext: %v", err)
	}
	if svc.callCount() != 1 {
		t.Errorf("calls = %q, busy calls must not reach the service", svc.calls)
	}
	if s.Busy() {
		t.Error("Busy() = true after completion")
	}
}

func TestTimeoutBoundsCalls(t *testing.T) {
	svc := &slowService{fakeService: &fakeService{}}
	view := &fakeView{}
	s := New(svc, view, WithTimeout(20*time.Millisecond))

	err := s.LoadNext(context.Background())
	if !errors.Is(err, errors.ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
	if s.Busy() {
		t.Error("session still busy after timeout")
	}
}

// slowService waits on the context so timeouts surface as transport errors.
type slowService struct {
	*fakeService
}

func (s *slowService) Next(ctx context.Context) (*docservice.NextResult, error) {
	<-ctx.Done()
	return nil, errors.NewTransportError("next", ctx.Err())
}
