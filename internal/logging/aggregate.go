package logging

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// LogEntry is one parsed line of the debug log.
type LogEntry struct {
	Timestamp time.Time      `json:"time"`
	Level     string         `json:"level"`
	Message   string         `json:"msg"`
	Document  string         `json:"document,omitempty"`
	Operation string         `json:"operation,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	Attrs     map[string]any `json:"attrs,omitempty"`
}

// LogFilter selects entries. Zero-valued fields match everything and set
// fields are combined with AND.
type LogFilter struct {
	// Level keeps entries at or above this level.
	Level string
	// Since keeps entries at or after this time.
	Since time.Time
	// Document keeps entries for one basename.
	Document string
	// Operation keeps entries for one operation (next, cleanup, ocr, publish, ...).
	Operation string
	// RequestID keeps entries for one service request.
	RequestID string
	// MessageContains keeps entries whose message contains this substring.
	MessageContains string
}

var levelOrder = map[string]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// maxLineSize bounds a single log line; longer lines are skipped.
const maxLineSize = 1 << 20

// ReadEntries parses the debug log in stateDir together with its uncompressed
// rotated backups, sorted oldest first. Lines that are not JSON are skipped.
func ReadEntries(stateDir string) ([]LogEntry, error) {
	current := filepath.Join(stateDir, LogFileName)
	if _, err := os.Stat(current); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no log file at %s: %w", current, err)
		}
		return nil, fmt.Errorf("failed to stat log file: %w", err)
	}

	backups, _ := filepath.Glob(current + ".[0-9]*")
	var entries []LogEntry
	for _, path := range append(backups, current) {
		if strings.HasSuffix(path, ".gz") {
			continue
		}
		fileEntries, err := readFile(path)
		if err != nil {
			return nil, err
		}
		entries = append(entries, fileEntries...)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	return entries, nil
}

func readFile(path string) ([]LogEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ParseEntries(f)
}

// ParseEntries reads JSON log lines from r in order.
func ParseEntries(r io.Reader) ([]LogEntry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var entries []LogEntry
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entry, err := parseLogEntry(line)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading log: %w", err)
	}
	return entries, nil
}

func parseLogEntry(line string) (LogEntry, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return LogEntry{}, fmt.Errorf("invalid JSON: %w", err)
	}

	entry := LogEntry{Attrs: make(map[string]any)}
	take := func(key string) string {
		s, _ := raw[key].(string)
		delete(raw, key)
		return s
	}

	if t, err := time.Parse(time.RFC3339Nano, take("time")); err == nil {
		entry.Timestamp = t
	}
	entry.Level = take("level")
	entry.Message = take("msg")
	entry.Document = take("document")
	entry.Operation = take("operation")
	entry.RequestID = take("request_id")

	for k, v := range raw {
		entry.Attrs[k] = v
	}
	return entry, nil
}

// FilterLogs returns the entries that match filter.
func FilterLogs(entries []LogEntry, filter LogFilter) []LogEntry {
	if filter == (LogFilter{}) {
		return entries
	}
	var out []LogEntry
	for _, e := range entries {
		if filter.matches(e) {
			out = append(out, e)
		}
	}
	return out
}

func (f LogFilter) matches(e LogEntry) bool {
	if f.Level != "" {
		want, okWant := levelOrder[strings.ToUpper(f.Level)]
		got, okGot := levelOrder[strings.ToUpper(e.Level)]
		if okWant && okGot && got < want {
			return false
		}
	}
	if !f.Since.IsZero() && e.Timestamp.Before(f.Since) {
		return false
	}
	if f.Document != "" && e.Document != f.Document {
		return false
	}
	if f.Operation != "" && e.Operation != f.Operation {
		return false
	}
	if f.RequestID != "" && e.RequestID != f.RequestID {
		return false
	}
	if f.MessageContains != "" && !strings.Contains(e.Message, f.MessageContains) {
		return false
	}
	return true
}

// ValidExportFormats lists the formats accepted by ExportEntries.
func ValidExportFormats() []string {
	return []string{"json", "text", "csv"}
}

// ExportEntries writes entries to w as json, text or csv.
func ExportEntries(w io.Writer, entries []LogEntry, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "text":
		return exportText(w, entries)
	case "csv":
		return exportCSV(w, entries)
	default:
		return fmt.Errorf("unsupported export format: %s (supported: %s)", format, strings.Join(ValidExportFormats(), ", "))
	}
}

// FormatText renders one entry as
// "[2006-01-02 15:04:05.000] LEVEL - message (document=x, operation=y) {attrs}".
func FormatText(e LogEntry) string {
	parts := []string{
		fmt.Sprintf("[%s]", e.Timestamp.Format("2006-01-02 15:04:05.000")),
		e.Level,
		"-",
		e.Message,
	}

	var ctx []string
	if e.Document != "" {
		ctx = append(ctx, "document="+e.Document)
	}
	if e.Operation != "" {
		ctx = append(ctx, "operation="+e.Operation)
	}
	if e.RequestID != "" {
		ctx = append(ctx, "request="+e.RequestID)
	}
	if len(ctx) > 0 {
		parts = append(parts, "("+strings.Join(ctx, ", ")+")")
	}

	if len(e.Attrs) > 0 {
		if b, err := json.Marshal(e.Attrs); err == nil {
			parts = append(parts, string(b))
		}
	}
	return strings.Join(parts, " ")
}

func exportText(w io.Writer, entries []LogEntry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintln(w, FormatText(e)); err != nil {
			return fmt.Errorf("failed to write text entry: %w", err)
		}
	}
	return nil
}

func exportCSV(w io.Writer, entries []LogEntry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"timestamp", "level", "message", "document", "operation", "request_id", "attrs"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, e := range entries {
		attrs := ""
		if len(e.Attrs) > 0 {
			if b, err := json.Marshal(e.Attrs); err == nil {
				attrs = string(b)
			}
		}
		record := []string{
			e.Timestamp.Format(time.RFC3339Nano),
			e.Level,
			e.Message,
			e.Document,
			e.Operation,
			e.RequestID,
			attrs,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
