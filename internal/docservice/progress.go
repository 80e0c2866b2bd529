package docservice

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
)

// ProgressEntry is one row of the service's progress log.
type ProgressEntry struct {
	Timestamp  string
	YearFolder string
	Basename   string
	Status     string
	Title      string
	PostURL    string
	Error      string
}

// Finished reports whether the row ended review of its document.
func (e ProgressEntry) Finished() bool {
	switch e.Status {
	case "published", "draft", "skipped":
		return true
	}
	return false
}

// ParseProgressLog decodes the CSV returned by /api/log. Columns are located
// by header name so extra or reordered columns are tolerated.
func ParseProgressLog(data []byte) ([]ProgressEntry, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading progress log header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	if _, ok := col["basename"]; !ok {
		return nil, fmt.Errorf("progress log has no basename column")
	}

	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	var entries []ProgressEntry
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading progress log: %w", err)
		}
		entries = append(entries, ProgressEntry{
			Timestamp:  field(rec, "timestamp"),
			YearFolder: field(rec, "year_folder"),
			Basename:   field(rec, "basename"),
			Status:     field(rec, "status"),
			Title:      field(rec, "title"),
			PostURL:    field(rec, "wp_url"),
			Error:      field(rec, "error_message"),
		})
	}
	return entries, nil
}

// StatusCount is the number of log rows with one status.
type StatusCount struct {
	Status string
	Count  int
}

// SummarizeProgress counts rows per status, most frequent first.
func SummarizeProgress(entries []ProgressEntry) []StatusCount {
	counts := make(map[string]int)
	for _, e := range entries {
		status := e.Status
		if status == "" {
			status = "unknown"
		}
		counts[status]++
	}

	out := make([]StatusCount, 0, len(counts))
	for status, n := range counts {
		out = append(out, StatusCount{Status: status, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Status < out[j].Status
	})
	return out
}
