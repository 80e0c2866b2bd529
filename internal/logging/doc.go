// Package logging provides structured logging for docreview.
//
// This package wraps Go's log/slog to write JSON lines to a debug log in the
// state directory. The TUI owns the terminal, so nothing is logged to stdout
// while a review session is running; the log is the place to look when a
// Document Service call misbehaves.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger("/home/me/.local/state/docreview", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.Info("document loaded", "has_pdf", true)
//
// # Context Propagation
//
// Child loggers carry persistent attributes:
//
//	docLogger := logger.WithDocument("PSC_1975_03_01").WithOperation("submit")
//	docLogger.Info("submitted", "kind", "publish")
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"submitted","document":"PSC_1975_03_01","operation":"submit","kind":"publish"}
//
// # Testing
//
// Use [NopLogger] to discard output, or [NewWriterLogger] with a buffer to
// assert on entries.
//
// # Configuration
//
//	logging:
//	  enabled: true
//	  level: info
package logging
