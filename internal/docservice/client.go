// Package docservice is the client for the Document Service API: the remote
// collaborator that owns the review queue, text cleanup, OCR and publishing.
package docservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Iron-Ham/docreview/internal/errors"
	"github.com/Iron-Ham/docreview/internal/logging"
	"github.com/google/uuid"
)

const (
	// defaultTimeout bounds a single request. OCR of a long PDF is the slow
	// path, so this is generous.
	defaultTimeout = 120 * time.Second

	// defaultUserAgent is sent with every request.
	defaultUserAgent = "docreview"

	// maxResponseBytes caps how much of a JSON response body is read.
	maxResponseBytes = 32 << 20

	// RequestIDHeader carries a per-request id for correlating client and server logs.
	RequestIDHeader = "X-Request-ID"
)

// Service is the Document Service API as seen by a review session.
type Service interface {
	// Next returns the next pending document, or a finished result when the
	// queue is empty.
	Next(ctx context.Context) (*NextResult, error)

	// Cleanup returns the server-normalized version of text.
	Cleanup(ctx context.Context, text string) (string, error)

	// OCR re-runs text extraction on the document's source PDF.
	OCR(ctx context.Context, basename string) (string, error)

	// Submit finalizes a document with the given kind.
	Submit(ctx context.Context, kind SubmitKind, req SubmitRequest) (*SubmitResult, error)

	// ProgressLog downloads the CSV log of finished documents.
	ProgressLog(ctx context.Context) ([]byte, error)
}

var _ Service = (*HTTPClient)(nil)

// HTTPClient implements Service over HTTP/JSON.
type HTTPClient struct {
	baseURL      *url.URL
	httpClient   *http.Client
	logger       *logging.Logger
	userAgent    string
	newRequestID func() string
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.httpClient.Timeout = timeout
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *logging.Logger) ClientOption {
	return func(c *HTTPClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *HTTPClient) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// Timeout returns the per-request timeout; zero means none.
func (c *HTTPClient) Timeout() time.Duration {
	return c.httpClient.Timeout
}

// NewHTTPClient creates a client for the service rooted at baseURL.
// baseURL must be an absolute http or https URL.
func NewHTTPClient(baseURL string, opts ...ClientOption) (*HTTPClient, error) {
	u, err := ParseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	c := &HTTPClient{
		baseURL: u,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger:       logging.NopLogger(),
		userAgent:    defaultUserAgent,
		newRequestID: uuid.NewString,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// ParseBaseURL validates a service base URL.
func ParseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid service URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid service URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid service URL %q: missing host", raw)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u, nil
}

// BaseURL returns the service root.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL.String()
}

// ResolveURL turns a preview reference from a Document (usually a
// server-relative path such as "/source/pdf?path=...") into an absolute URL.
// An empty reference stays empty.
func (c *HTTPClient) ResolveURL(ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return c.baseURL.ResolveReference(u).String()
}

// Next implements Service.
func (c *HTTPClient) Next(ctx context.Context) (*NextResult, error) {
	var resp nextResponse
	if err := c.doJSON(ctx, "next", http.MethodGet, "/api/next", nil, &resp); err != nil {
		return nil, err
	}

	if resp.Finished {
		return &NextResult{Finished: true, Message: resp.Message}, nil
	}
	if resp.Basename == "" {
		return nil, errors.NewTransportError("next", errors.New("response has no document basename"))
	}

	doc := resp.Document
	return &NextResult{Document: &doc, Message: resp.Message}, nil
}

// Cleanup implements Service.
func (c *HTTPClient) Cleanup(ctx context.Context, text string) (string, error) {
	var resp textResponse
	if err := c.doJSON(ctx, "cleanup", http.MethodPost, "/api/cleanup", textRequest{Text: text}, &resp); err != nil {
		return "", err
	}
	return resp.Text, nil
}

// OCR implements Service.
func (c *HTTPClient) OCR(ctx context.Context, basename string) (string, error) {
	var resp textResponse
	if err := c.doJSON(ctx, "ocr", http.MethodPost, "/api/ocr", ocrRequest{Basename: basename}, &resp); err != nil {
		return "", err
	}
	return resp.Text, nil
}

// Submit implements Service.
func (c *HTTPClient) Submit(ctx context.Context, kind SubmitKind, req SubmitRequest) (*SubmitResult, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown submit kind %q", kind)
	}
	var resp SubmitResult
	if err := c.doJSON(ctx, string(kind), http.MethodPost, "/api/"+string(kind), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ProgressLog implements Service.
func (c *HTTPClient) ProgressLog(ctx context.Context) ([]byte, error) {
	body, _, err := c.do(ctx, "log", http.MethodGet, c.endpoint("/api/log"), nil, 0)
	return body, err
}

// Download fetches a preview resource. ref may be relative to the service
// root. At most limit bytes are read (0 means maxResponseBytes); a larger
// body is an error rather than a silently truncated file.
func (c *HTTPClient) Download(ctx context.Context, ref string, limit int64) ([]byte, string, error) {
	if ref == "" {
		return nil, "", errors.NewTransportError("preview", errors.New("empty preview URL"))
	}
	return c.do(ctx, "preview", http.MethodGet, c.ResolveURL(ref), nil, limit)
}

func (c *HTTPClient) endpoint(path string) string {
	return c.baseURL.String() + path
}

// doJSON sends body as JSON and decodes the response into out.
func (c *HTTPClient) doJSON(ctx context.Context, op, method, path string, body, out any) error {
	respBody, _, err := c.do(ctx, op, method, c.endpoint(path), body, 0)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return errors.NewTransportError(op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// do performs one request. Every failure is returned as *errors.ServiceError.
func (c *HTTPClient) do(ctx context.Context, op, method, target string, body any, limit int64) ([]byte, string, error) {
	requestID := c.newRequestID()
	logger := c.logger.WithOperation(op).WithRequestID(requestID)

	var reader io.Reader
	if body != nil {
		reqBytes, err := json.Marshal(body)
		if err != nil {
			return nil, "", errors.NewTransportError(op, fmt.Errorf("marshal request: %w", err)).WithRequestID(requestID)
		}
		reader = bytes.NewReader(reqBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, "", errors.NewTransportError(op, fmt.Errorf("create request: %w", err)).WithRequestID(requestID)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json, */*")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("request failed", "method", method, "url", target, "error", err.Error())
		return nil, "", errors.NewTransportError(op, fmt.Errorf("send request: %w", err)).WithRequestID(requestID)
	}
	defer func() { _ = resp.Body.Close() }()

	if limit <= 0 {
		limit = maxResponseBytes
	}
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, "", errors.NewTransportError(op, fmt.Errorf("read response: %w", err)).WithRequestID(requestID)
	}
	if int64(len(respBody)) > limit {
		return nil, "", errors.NewTransportError(op, fmt.Errorf("response exceeds %d bytes", limit)).WithRequestID(requestID)
	}

	logger.Debug("request complete",
		"method", method,
		"url", target,
		"status", resp.StatusCode,
		"bytes", len(respBody),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := errorDetail(respBody)
		logger.Warn("service returned error", "status", resp.StatusCode, "detail", detail)
		return nil, "", errors.NewServiceError(op, resp.StatusCode, detail).WithRequestID(requestID)
	}

	return respBody, resp.Header.Get("Content-Type"), nil
}

// errorDetail extracts a human-readable message from an error body. The
// service usually answers {"error": "..."}; anything else is used as text.
func errorDetail(body []byte) string {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error != "" {
		return er.Error
	}
	return strings.TrimSpace(string(body))
}
