package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Log levels supported by the logger
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// LogFileName is the file created inside the state directory.
const LogFileName = "debug.log"

// Logger provides structured logging with context propagation.
// It is safe for concurrent use.
type Logger struct {
	logger *slog.Logger
	out    io.Closer   // nil when the logger does not own its writer
	mu     *sync.Mutex // Protects out; shared with child loggers
	attrs  []slog.Attr // Persistent attributes (document, operation, request)
}

// NewLogger creates a new Logger that writes JSON-formatted logs to
// {stateDir}/debug.log with the default rotation.
//
// The level parameter controls which messages are logged:
//   - DEBUG: All messages
//   - INFO: Info, Warn, and Error messages
//   - WARN: Warn and Error messages
//   - ERROR: Only Error messages
//
// If stateDir is empty, logs will be written to stderr.
func NewLogger(stateDir string, level string) (*Logger, error) {
	return NewRotatingLogger(stateDir, level, DefaultRotationConfig())
}

// NewRotatingLogger is NewLogger with explicit rotation settings.
func NewRotatingLogger(stateDir, level string, rotation RotationConfig) (*Logger, error) {
	if stateDir == "" {
		return newLogger(os.Stderr, nil, level), nil
	}

	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	rw, err := NewRotatingWriter(filepath.Join(stateDir, LogFileName), rotation)
	if err != nil {
		return nil, err
	}
	return newLogger(rw, rw, level), nil
}

// NewWriterLogger creates a Logger that writes JSON lines to w.
func NewWriterLogger(w io.Writer, level string) *Logger {
	return newLogger(w, nil, level)
}

func newLogger(w io.Writer, out io.Closer, level string) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return &Logger{
		logger: slog.New(handler),
		out:    out,
		mu:     &sync.Mutex{},
		attrs:  make([]slog.Attr, 0),
	}
}

// parseLevel converts a string log level to slog.Level.
// Defaults to INFO if the level string is not recognized.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithDocument returns a child Logger that tags every entry with the
// document basename under review.
func (l *Logger) WithDocument(basename string) *Logger {
	return l.withAttr(slog.String("document", basename))
}

// WithOperation returns a child Logger that tags every entry with a session
// operation name ("next", "cleanup", "ocr", "publish", "draft", "skip",
// "log", "preview").
func (l *Logger) WithOperation(op string) *Logger {
	return l.withAttr(slog.String("operation", op))
}

// WithRequestID returns a child Logger that tags every entry with the
// X-Request-ID of a Document Service call.
func (l *Logger) WithRequestID(id string) *Logger {
	return l.withAttr(slog.String("request_id", id))
}

// With returns a new Logger with arbitrary key-value attributes.
// Keys and values are provided as alternating arguments.
func (l *Logger) With(args ...any) *Logger {
	if len(args) == 0 {
		return l
	}

	newAttrs := make([]slog.Attr, 0, len(l.attrs)+len(args)/2)
	newAttrs = append(newAttrs, l.attrs...)

	for i := 0; i < len(args)-1; i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		newAttrs = append(newAttrs, slog.Any(key, args[i+1]))
	}

	return &Logger{
		logger: l.logger,
		out:    l.out,
		mu:     l.mu,
		attrs:  newAttrs,
	}
}

func (l *Logger) withAttr(attr slog.Attr) *Logger {
	newAttrs := make([]slog.Attr, len(l.attrs)+1)
	copy(newAttrs, l.attrs)
	newAttrs[len(l.attrs)] = attr

	return &Logger{
		logger: l.logger,
		out:    l.out,
		mu:     l.mu,
		attrs:  newAttrs,
	}
}

// Debug logs a message at DEBUG level with optional key-value pairs.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, msg, args...)
}

// Info logs a message at INFO level with optional key-value pairs.
func (l *Logger) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, msg, args...)
}

// Warn logs a message at WARN level with optional key-value pairs.
func (l *Logger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, msg, args...)
}

// Error logs a message at ERROR level with optional key-value pairs.
func (l *Logger) Error(msg string, args ...any) {
	l.log(slog.LevelError, msg, args...)
}

func (l *Logger) log(level slog.Level, msg string, args ...any) {
	allArgs := make([]any, 0, len(l.attrs)*2+len(args))
	for _, attr := range l.attrs {
		allArgs = append(allArgs, attr.Key, attr.Value.Any())
	}
	allArgs = append(allArgs, args...)

	l.logger.Log(context.Background(), level, msg, allArgs...)
}

// Close flushes and closes the log file.
// If the logger was created without a state directory this is a no-op.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.out == nil {
		return nil
	}
	err := l.out.Close()
	l.out = nil
	if err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	return nil
}

// NopLogger returns a Logger that discards all log output.
func NopLogger() *Logger {
	return NewWriterLogger(io.Discard, LevelError)
}

// ParseLevel converts a string level to the corresponding constant.
// Returns LevelInfo if the level string is not recognized.
func ParseLevel(level string) string {
	switch strings.ToUpper(level) {
	case LevelDebug:
		return LevelDebug
	case LevelInfo:
		return LevelInfo
	case LevelWarn:
		return LevelWarn
	case LevelError:
		return LevelError
	default:
		return LevelInfo
	}
}

// ValidLevels returns the list of valid log level strings.
func ValidLevels() []string {
	return []string{LevelDebug, LevelInfo, LevelWarn, LevelError}
}
