package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/Iron-Ham/docreview/internal/config"
	"github.com/Iron-Ham/docreview/internal/errors"
	"github.com/Iron-Ham/docreview/internal/logging"
	"github.com/spf13/cobra"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View the debug log",
	Long: `View and filter the debug log written by the review screen.

Rotated backups (debug.log.1, ...) are read along with the current file.

Examples:
  # Show the last 50 entries
  docreview logs

  # Everything about one document
  docreview logs --document scan_0042 -n 0

  # Failed service calls in the last hour
  docreview logs --level warn --since 1h

  # Follow the log while reviewing in another terminal
  docreview logs -f

  # Export as CSV
  docreview logs --format csv -n 0 > review-log.csv`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

var (
	logsTail      int
	logsFollow    bool
	logsLevel     string
	logsSince     string
	logsGrep      string
	logsDocument  string
	logsOperation string
	logsRequestID string
	logsFormat    string
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "Number of entries to show (0 for all)")
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow log output (like tail -f)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "Show logs since duration ago (e.g., 1h, 30m)")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "Filter entries whose message matches pattern (regex)")
	logsCmd.Flags().StringVar(&logsDocument, "document", "", "Filter by document basename")
	logsCmd.Flags().StringVar(&logsOperation, "operation", "", "Filter by operation (next, cleanup, ocr, publish, draft, skip)")
	logsCmd.Flags().StringVar(&logsRequestID, "request-id", "", "Filter by service request id")
	logsCmd.Flags().StringVar(&logsFormat, "format", "text", "Output format: "+strings.Join(logging.ValidExportFormats(), ", "))
}

// logQuery is the parsed form of the logs flags.
type logQuery struct {
	filter logging.LogFilter
	grep   *regexp.Regexp
	tail   int
	format string
}

func parseLogQuery(now time.Time) (logQuery, error) {
	q := logQuery{
		tail:   logsTail,
		format: strings.ToLower(logsFormat),
		filter: logging.LogFilter{
			Document:  logsDocument,
			Operation: logsOperation,
			RequestID: logsRequestID,
		},
	}
	if logsLevel != "" {
		q.filter.Level = logging.ParseLevel(logsLevel)
	}
	if logsSince != "" {
		d, err := time.ParseDuration(logsSince)
		if err != nil {
			return q, fmt.Errorf("invalid duration format: %w", err)
		}
		q.filter.Since = now.Add(-d)
	}
	if logsGrep != "" {
		re, err := regexp.Compile(logsGrep)
		if err != nil {
			return q, fmt.Errorf("invalid grep pattern: %w", err)
		}
		q.grep = re
	}
	valid := false
	for _, f := range logging.ValidExportFormats() {
		if q.format == f {
			valid = true
		}
	}
	if !valid {
		return q, fmt.Errorf("unsupported format %q (supported: %s)", logsFormat, strings.Join(logging.ValidExportFormats(), ", "))
	}
	return q, nil
}

// apply filters entries and keeps the last tail of them.
func (q logQuery) apply(entries []logging.LogEntry) []logging.LogEntry {
	entries = logging.FilterLogs(entries, q.filter)
	if q.grep != nil {
		var kept []logging.LogEntry
		for _, e := range entries {
			if q.grep.MatchString(e.Message) {
				kept = append(kept, e)
			}
		}
		entries = kept
	}
	if q.tail > 0 && len(entries) > q.tail {
		entries = entries[len(entries)-q.tail:]
	}
	return entries
}

func runLogs(cmd *cobra.Command, args []string) error {
	q, err := parseLogQuery(time.Now())
	if err != nil {
		return err
	}

	cfg := config.Get()
	stateDir := cfg.Paths.ResolveStateDir()
	out := cmd.OutOrStdout()

	if logsFollow {
		return followLogs(cmd, filepath.Join(stateDir, logging.LogFileName), q)
	}

	entries, err := logging.ReadEntries(stateDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(out, "No logs found.")
			fmt.Fprintln(out, "Logs are stored at:", filepath.Join(stateDir, logging.LogFileName))
			return nil
		}
		return err
	}

	entries = q.apply(entries)
	if len(entries) == 0 && q.format == "text" {
		fmt.Fprintln(out, "No matching log entries found.")
		return nil
	}
	return logging.ExportEntries(out, entries, q.format)
}

// followLogs implements tail -f behavior for the log file. It stops when the
// command's context is cancelled.
func followLogs(cmd *cobra.Command, logPath string, q logQuery) error {
	file, err := os.Open(logPath)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()

	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("failed to seek to end: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Following %s... (Ctrl+C to stop)\n\n", logPath)

	// Tail limits do not apply to a live stream.
	q.tail = 0
	ctx := cmd.Context()
	reader := bufio.NewReader(file)
	var partial string
	for {
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			// Keep a half-written line until the rest arrives.
			partial += line
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(100 * time.Millisecond):
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("error reading log file: %w", err)
		}
		line, partial = partial+line, ""

		entries, err := logging.ParseEntries(strings.NewReader(line))
		if err != nil {
			continue
		}
		if entries = q.apply(entries); len(entries) == 0 {
			continue
		}
		if err := logging.ExportEntries(out, entries, q.format); err != nil {
			return err
		}
	}
}
