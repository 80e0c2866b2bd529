package review

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Iron-Ham/docreview/internal/docservice"
	"github.com/Iron-Ham/docreview/internal/errors"
	"github.com/Iron-Ham/docreview/internal/logging"
)

// Status messages shown while a document moves through review.
const (
	StatusLoading    = "Loading next item..."
	StatusReady      = "Ready."
	StatusCleaning   = "Cleaning up..."
	StatusCleaned    = "Cleanup complete."
	StatusOCR        = "Re-OCR in progress..."
	StatusOCRDone    = "Re-OCR complete."
	StatusSubmitDone = "Done."
)

var submitStatus = map[docservice.SubmitKind]string{
	docservice.KindPublish: "Publishing...",
	docservice.KindDraft:   "Saving draft...",
	docservice.KindSkip:    "Skipping...",
}

var failurePrefix = map[docservice.SubmitKind]string{
	docservice.KindPublish: "Publish failed: ",
	docservice.KindDraft:   "Save draft failed: ",
	docservice.KindSkip:    "Skip failed: ",
}

// Session is the review workflow for one operator. It holds at most one
// document at a time and runs at most one service call at a time.
type Session struct {
	svc      docservice.Service
	view     View
	logger   *logging.Logger
	timeout  time.Duration
	validate *validator.Validate

	mu      sync.Mutex
	current *docservice.Document
	mode    PreviewMode
	busy    bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTimeout bounds each service call. Zero leaves calls bounded only by
// the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.timeout = d
	}
}

// New creates an unloaded session.
func New(svc docservice.Service, view View, opts ...Option) *Session {
	s := &Session{
		svc:      svc,
		view:     view,
		logger:   logging.NopLogger(),
		validate: newValidator(),
		mode:     PreviewPDF,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns a copy of the loaded document, or nil.
func (s *Session) Current() *docservice.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	doc := *s.current
	return &doc
}

// Mode returns the selected preview mode. It may name a format the current
// document lacks; see PreviewURL.
func (s *Session) Mode() PreviewMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Busy reports whether a service call is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// PreviewURL returns the preview to display for the current state.
func (s *Session) PreviewURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SelectPreviewURL(s.current, s.mode)
}

// SetPreview selects a preview mode and refreshes only the preview. It is
// allowed while a call is in flight.
func (s *Session) SetPreview(mode PreviewMode) {
	s.mu.Lock()
	s.mode = mode
	url := SelectPreviewURL(s.current, mode)
	s.mu.Unlock()

	s.view.SetPreview(mode, url)
}

// TogglePreview switches between the PDF and DOCX renderings.
func (s *Session) TogglePreview() {
	s.SetPreview(s.Mode().Other())
}

// LoadNext replaces the current document with the next pending one.
func (s *Session) LoadNext(ctx context.Context) error {
	if err := s.acquire("next"); err != nil {
		return err
	}
	defer s.release()

	return s.loadNext(ctx)
}

// Cleanup sends the editor text to the service and replaces it with the
// normalized result. It does not need a loaded document.
func (s *Session) Cleanup(ctx context.Context) error {
	if err := s.acquire("cleanup"); err != nil {
		return err
	}
	defer s.release()

	text := s.view.CollectFormInput().Content
	s.view.SetStatus(StatusCleaning)

	ctx, cancel := s.callContext(ctx)
	defer cancel()

	cleaned, err := s.svc.Cleanup(ctx, text)
	if err != nil {
		return s.fail("Cleanup failed: ", s.logger.WithOperation("cleanup"), err)
	}

	s.view.SetText(cleaned)
	s.view.SetStatus(StatusCleaned)
	return nil
}

// ReOCR re-runs extraction on the current document's PDF and replaces the
// editor text with the result.
func (s *Session) ReOCR(ctx context.Context) error {
	doc := s.Current()
	if doc == nil || !doc.HasPDF {
		s.view.Alert(MsgNoPDF)
		return errors.NewValidationError(MsgNoPDF).WithCause(errors.ErrNoPDF)
	}

	if err := s.acquire("ocr"); err != nil {
		return err
	}
	defer s.release()

	logger := s.logger.WithDocument(doc.Basename).WithOperation("ocr")
	s.view.SetStatus(StatusOCR)

	ctx, cancel := s.callContext(ctx)
	defer cancel()

	text, err := s.svc.OCR(ctx, doc.Basename)
	if err != nil {
		return s.fail("Re-OCR failed: ", logger, err)
	}

	logger.Info("re-OCR complete", "chars", len(text))
	s.view.SetText(text)
	s.view.SetStatus(StatusOCRDone)
	return nil
}

// Submit finalizes the current document as kind and then loads the next one.
// With no document loaded it does nothing.
func (s *Session) Submit(ctx context.Context, kind docservice.SubmitKind) error {
	if !kind.Valid() {
		return errors.NewValidationError("unknown action " + string(kind)).WithCause(errors.ErrInvalidInput)
	}

	doc := s.Current()
	if doc == nil {
		return nil
	}

	in := normalize(s.view.CollectFormInput())
	if err := validateSubmission(s.validate, kind, in); err != nil {
		var verr *errors.ValidationError
		if errors.As(err, &verr) {
			s.view.Alert(verr.UserMessage())
		}
		return err
	}

	if err := s.acquire(string(kind)); err != nil {
		return err
	}
	defer s.release()

	logger := s.logger.WithDocument(doc.Basename).WithOperation(string(kind))
	s.view.SetStatus(submitStatus[kind])

	callCtx, cancel := s.callContext(ctx)
	res, err := s.svc.Submit(callCtx, kind, docservice.SubmitRequest{
		Basename:   doc.Basename,
		YearFolder: doc.YearFolder,
		Title:      in.Title,
		Date:       in.Date,
		Content:    in.Content,
	})
	cancel()
	if err != nil {
		return s.fail(failurePrefix[kind], logger, err)
	}

	msg := StatusSubmitDone
	if res != nil && res.Message != "" {
		msg = res.Message
	}
	logger.Info("document submitted", "message", msg)
	s.view.SetStatus(msg)

	return s.loadNext(ctx)
}

// loadNext runs with the busy flag held.
func (s *Session) loadNext(ctx context.Context) error {
	logger := s.logger.WithOperation("next")
	s.view.SetStatus(StatusLoading)

	ctx, cancel := s.callContext(ctx)
	defer cancel()

	res, err := s.svc.Next(ctx)
	if err != nil {
		s.setCurrent(nil)
		s.view.Render(nil, PreviewPDF, "")
		return s.fail("Error loading document: ", logger, err)
	}

	if res.Finished || res.Document == nil {
		s.setCurrent(nil)
		s.view.Render(nil, PreviewPDF, "")
		msg := res.Message
		if msg == "" {
			msg = errors.ErrQueueFinished.Error()
		}
		logger.Info("queue finished", "message", msg)
		s.view.SetStatus(msg)
		return nil
	}

	doc := *res.Document
	url := s.setCurrent(&doc)
	logger.WithDocument(doc.Basename).Info("document loaded",
		"year_folder", doc.YearFolder,
		"has_pdf", doc.HasPDF,
		"has_docx", doc.HasDOCX,
	)

	view := doc
	s.view.Render(&view, PreviewPDF, url)
	s.view.SetStatus(StatusReady)
	return nil
}

// setCurrent swaps the document, resets the mode, and returns the preview URL.
func (s *Session) setCurrent(doc *docservice.Document) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = doc
	s.mode = PreviewPDF
	return SelectPreviewURL(doc, s.mode)
}

// fail is the one place service errors are shown to the operator.
func (s *Session) fail(prefix string, logger *logging.Logger, err error) error {
	attrs := []any{"error", err.Error(), "retryable", errors.IsRetryable(err)}
	var svcErr *errors.ServiceError
	if errors.As(err, &svcErr) {
		attrs = append(attrs, "status", svcErr.StatusCode, "request_id", svcErr.RequestID)
	}
	logger.Error("service call failed", attrs...)

	s.view.SetStatus(prefix + errors.UserMessage(err))
	return err
}

func (s *Session) acquire(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		s.logger.Debug("rejected while busy", "operation", op)
		return errors.ErrBusy
	}
	s.busy = true
	return nil
}

func (s *Session) release() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

func (s *Session) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}
