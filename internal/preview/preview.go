// Package preview renders a document's PDF or DOCX-derived HTML preview as
// terminal text.
package preview

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/sync/errgroup"

	"github.com/Iron-Ham/docreview/internal/docservice"
	"github.com/Iron-Ham/docreview/internal/logging"
)

// DefaultMaxBytes caps a single preview download.
const DefaultMaxBytes int64 = 20 << 20

// NoPreview is shown when the document has no rendering at all.
const NoPreview = "No preview available."

// Kind is the format a preview was rendered from.
type Kind string

const (
	KindNone Kind = "none"
	KindPDF  Kind = "pdf"
	KindHTML Kind = "html"
)

// Fetcher downloads preview resources. *docservice.HTTPClient satisfies it.
type Fetcher interface {
	Download(ctx context.Context, ref string, limit int64) ([]byte, string, error)
	ResolveURL(ref string) string
}

var _ Fetcher = (*docservice.HTTPClient)(nil)

// Rendering is one preview converted for display.
type Rendering struct {
	Ref     string // reference as given by the document
	URL     string // absolute URL
	Kind    Kind
	Pages   int    // PDF only
	Version string // PDF only
	Blocks  []string
	Err     error
}

// Text formats the rendering for a pane width columns wide.
func (r *Rendering) Text(width int) string {
	if r == nil || r.Ref == "" {
		return NoPreview
	}
	if r.Err != nil {
		return wrap(fmt.Sprintf("Preview unavailable: %v\n\n%s", r.Err, r.URL), width)
	}

	switch r.Kind {
	case KindPDF:
		return wrap(r.Summary()+"\n\n"+r.URL, width)
	case KindHTML:
		var sb strings.Builder
		sb.WriteString(r.Summary())
		for _, b := range r.Blocks {
			sb.WriteString("\n\n")
			sb.WriteString(b)
		}
		return wrap(sb.String(), width)
	default:
		return NoPreview
	}
}

// Summary is the one-line description of the rendering.
func (r *Rendering) Summary() string {
	switch r.Kind {
	case KindPDF:
		pages := "pages"
		if r.Pages == 1 {
			pages = "page"
		}
		s := fmt.Sprintf("PDF • %d %s", r.Pages, pages)
		if r.Version != "" {
			s += " • v" + r.Version
		}
		return s
	case KindHTML:
		return fmt.Sprintf("DOCX • %d blocks", len(r.Blocks))
	default:
		return NoPreview
	}
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithMaxBytes caps each download.
func WithMaxBytes(n int64) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.maxBytes = n
		}
	}
}

// WithLogger sets the renderer logger.
func WithLogger(logger *logging.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Renderer fetches and converts previews. Results are cached for the current
// document only; switching documents drops the cache.
type Renderer struct {
	fetcher  Fetcher
	maxBytes int64
	logger   *logging.Logger

	mu       sync.Mutex
	document string
	cache    map[string]*Rendering
}

// NewRenderer creates a Renderer backed by fetcher.
func NewRenderer(fetcher Fetcher, opts ...Option) *Renderer {
	r := &Renderer{
		fetcher:  fetcher,
		maxBytes: DefaultMaxBytes,
		logger:   logging.NopLogger(),
		cache:    make(map[string]*Rendering),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reset drops cached renderings unless basename is the cached document.
func (r *Renderer) Reset(basename string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.document != basename {
		r.document = basename
		r.cache = make(map[string]*Rendering)
	}
}

// Cached returns a cached rendering for ref, if any.
func (r *Renderer) Cached(ref string) (*Rendering, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rend, ok := r.cache[ref]
	return rend, ok
}

// Render returns the rendering for ref, fetching it when it is not cached.
// Failures are recorded on the Rendering, never returned, so a broken
// preview cannot disturb the review session.
func (r *Renderer) Render(ctx context.Context, ref string) *Rendering {
	if ref == "" {
		return &Rendering{Kind: KindNone}
	}
	if rend, ok := r.Cached(ref); ok {
		return rend
	}

	rend := r.fetch(ctx, ref)

	// Canceled fetches are not cached so a later attempt can succeed.
	if ctx.Err() == nil {
		r.mu.Lock()
		r.cache[ref] = rend
		r.mu.Unlock()
	}
	return rend
}

// Prefetch renders every preview doc offers concurrently. It resets the
// cache to doc first.
func (r *Renderer) Prefetch(ctx context.Context, doc *docservice.Document) error {
	if doc == nil {
		r.Reset("")
		return nil
	}
	r.Reset(doc.Basename)

	g, gctx := errgroup.WithContext(ctx)
	for _, ref := range []string{doc.PDFURL, doc.DOCXHTMLURL} {
		if ref == "" {
			continue
		}
		g.Go(func() error {
			r.Render(gctx, ref)
			return gctx.Err()
		})
	}
	return g.Wait()
}

func (r *Renderer) fetch(ctx context.Context, ref string) *Rendering {
	rend := &Rendering{Ref: ref, URL: r.fetcher.ResolveURL(ref)}
	logger := r.logger.WithOperation("preview").With("url", rend.URL)

	body, contentType, err := r.fetcher.Download(ctx, ref, r.maxBytes)
	if err != nil {
		logger.Warn("preview download failed", "error", err.Error())
		rend.Err = err
		return rend
	}

	if isPDF(body, contentType) {
		rend.Kind = KindPDF
		rend.Pages, rend.Version, rend.Err = inspectPDF(body)
	} else {
		rend.Kind = KindHTML
		rend.Blocks, rend.Err = extractBlocks(body)
	}
	if rend.Err != nil {
		logger.Warn("preview render failed", "kind", string(rend.Kind), "error", rend.Err.Error())
	} else {
		logger.Debug("preview rendered", "kind", string(rend.Kind), "bytes", len(body))
	}
	return rend
}

func isPDF(body []byte, contentType string) bool {
	if strings.HasPrefix(strings.ToLower(contentType), "application/pdf") {
		return true
	}
	return bytes.HasPrefix(body, []byte("%PDF-"))
}

func init() {
	// pdfcpu otherwise writes a config directory under the user's home.
	api.DisableConfigDir()
}

// inspectPDF reads the page count and header version.
func inspectPDF(body []byte) (int, string, error) {
	conf := model.NewDefaultConfiguration()

	pages, err := api.PageCount(bytes.NewReader(body), conf)
	if err != nil {
		return 0, "", fmt.Errorf("read PDF: %w", err)
	}

	var version string
	if pdfCtx, err := api.ReadContext(bytes.NewReader(body), conf); err == nil && pdfCtx.HeaderVersion != nil {
		version = pdfCtx.HeaderVersion.String()
	}
	return pages, version, nil
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return ansi.Wordwrap(s, width, "")
}
