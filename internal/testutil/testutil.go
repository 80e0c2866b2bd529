// Package testutil provides testing utilities for docreview tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"strings"
	"sync"
	"testing"
)

// DocumentService is an in-memory Document Service. It serves the queue in
// order and removes the head document whenever one is published, drafted or
// skipped.
type DocumentService struct {
	// FinishedMessage is returned by /api/next once the queue is empty.
	FinishedMessage string
	// Failures maps a path to a status code and error text to reply with.
	Failures map[string]Failure
	// ProgressLog is served verbatim at /api/log.
	ProgressLog string

	mu       sync.Mutex
	queue    []map[string]any
	requests []string
	bodies   map[string][]map[string]string
	server   *httptest.Server
}

// Failure is a canned error reply.
type Failure struct {
	Status int
	Error  string
}

// NewDocumentService starts a service holding docs. It is closed when the
// test completes.
func NewDocumentService(t *testing.T, docs ...map[string]any) *DocumentService {
	t.Helper()
	s := &DocumentService{
		FinishedMessage: "All done!",
		queue:           docs,
		bodies:          map[string][]map[string]string{},
	}
	s.server = httptest.NewServer(s)
	t.Cleanup(s.server.Close)
	return s
}

// URL is the service base URL.
func (s *DocumentService) URL() string {
	return s.server.URL
}

// ServeHTTP implements http.Handler.
func (s *DocumentService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, r.URL.Path)

	if f, ok := s.Failures[r.URL.Path]; ok {
		writeJSON(w, f.Status, map[string]string{"error": f.Error})
		return
	}

	switch r.URL.Path {
	case "/api/next":
		if len(s.queue) == 0 {
			writeJSON(w, http.StatusOK, map[string]any{"message": s.FinishedMessage, "finished": true})
			return
		}
		writeJSON(w, http.StatusOK, s.queue[0])

	case "/api/publish", "/api/draft", "/api/skip":
		body, ok := decodeBody(w, r)
		if !ok {
			return
		}
		s.bodies[r.URL.Path] = append(s.bodies[r.URL.Path], body)
		if len(s.queue) > 0 {
			s.queue = s.queue[1:]
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "Saved " + body["basename"]})

	case "/api/cleanup":
		body, ok := decodeBody(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"text": strings.Join(strings.Fields(body["text"]), " ")})

	case "/api/ocr":
		body, ok := decodeBody(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"text": "OCR text for " + body["basename"]})

	case "/api/log":
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(s.ProgressLog))

	default:
		http.NotFound(w, r)
	}
}

// Count returns how many requests hit path.
func (s *DocumentService) Count(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.requests {
		if p == path {
			n++
		}
	}
	return n
}

// Bodies returns the decoded request bodies posted to path.
func (s *DocumentService) Bodies(path string) []map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]string(nil), s.bodies[path]...)
}

func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]string, bool) {
	var body map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return nil, false
	}
	return body, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// SkipIfNoGolangciLint skips the test if golangci-lint is not installed.
func SkipIfNoGolangciLint(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("golangci-lint"); err != nil {
		t.Skip("golangci-lint not found in PATH, skipping test")
	}
}
