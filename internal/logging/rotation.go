package logging

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// RotationConfig controls size-based rotation of the debug log.
type RotationConfig struct {
	// MaxSizeMB is the size at which the log is rotated. 0 disables rotation.
	MaxSizeMB int
	// MaxBackups is how many rotated files are kept.
	MaxBackups int
	// Compress gzips rotated files.
	Compress bool
}

// DefaultRotationConfig returns the rotation used when none is configured.
func DefaultRotationConfig() RotationConfig {
	return RotationConfig{
		MaxSizeMB:  10,
		MaxBackups: 3,
	}
}

// RotatingWriter is an io.WriteCloser over a log file that rotates to
// debug.log.1, debug.log.2, ... when it grows past the configured size.
// It is safe for concurrent use.
type RotatingWriter struct {
	mu sync.Mutex

	path       string
	maxBytes   int64
	maxBackups int
	compress   bool

	file *os.File
	size int64

	// compressWG tracks background compression so Close can wait for it.
	compressWG sync.WaitGroup
}

var _ io.WriteCloser = (*RotatingWriter)(nil)

// NewRotatingWriter opens (or creates) path for appending.
func NewRotatingWriter(path string, cfg RotationConfig) (*RotatingWriter, error) {
	rw := &RotatingWriter{
		path:       path,
		maxBytes:   int64(cfg.MaxSizeMB) << 20,
		maxBackups: cfg.MaxBackups,
		compress:   cfg.Compress,
	}
	if err := rw.open(); err != nil {
		return nil, err
	}
	return rw, nil
}

// open must be called with mu held (or before the writer is shared).
func (rw *RotatingWriter) open() error {
	if err := os.MkdirAll(filepath.Dir(rw.path), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(rw.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}
	rw.file = f
	rw.size = info.Size()
	return nil
}

// Write appends p, rotating first if p would push the file past the limit.
func (rw *RotatingWriter) Write(p []byte) (int, error) {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.file == nil {
		return 0, fmt.Errorf("log file is closed")
	}

	if rw.maxBytes > 0 && rw.size > 0 && rw.size+int64(len(p)) > rw.maxBytes {
		if err := rw.rotate(); err != nil {
			// The TUI owns stdout, so stderr is the only place left to complain.
			fmt.Fprintf(os.Stderr, "docreview: log rotation failed: %v\n", err)
			if rw.file == nil {
				return 0, err
			}
		}
	}

	n, err := rw.file.Write(p)
	rw.size += int64(n)
	return n, err
}

func (rw *RotatingWriter) rotate() error {
	if err := rw.file.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	rw.file = nil

	rw.shiftBackups()

	if rw.maxBackups > 0 {
		backup := rw.backupPath(1)
		if err := os.Rename(rw.path, backup); err != nil {
			if openErr := rw.open(); openErr != nil {
				return fmt.Errorf("failed to rename log file and reopen: %w", openErr)
			}
			return fmt.Errorf("failed to rename log file: %w", err)
		}
		if rw.compress {
			rw.compressWG.Add(1)
			go func() {
				defer rw.compressWG.Done()
				gzipFile(backup)
			}()
		}
	} else if err := os.Remove(rw.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove log file: %w", err)
	}

	return rw.open()
}

// shiftBackups renames .N to .N+1, dropping whatever falls off the end.
func (rw *RotatingWriter) shiftBackups() {
	if rw.maxBackups <= 0 {
		return
	}
	oldest := rw.backupPath(rw.maxBackups)
	_ = os.Remove(oldest)
	_ = os.Remove(oldest + ".gz")

	for i := rw.maxBackups - 1; i >= 1; i-- {
		from, to := rw.backupPath(i), rw.backupPath(i+1)
		if _, err := os.Stat(from + ".gz"); err == nil {
			_ = os.Rename(from+".gz", to+".gz")
		} else if _, err := os.Stat(from); err == nil {
			_ = os.Rename(from, to)
		}
	}
}

func (rw *RotatingWriter) backupPath(n int) string {
	return fmt.Sprintf("%s.%d", rw.path, n)
}

// gzipFile replaces path with path.gz. On failure the plain file is kept.
func gzipFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	out, err := os.Create(path + ".gz")
	if err != nil {
		return
	}
	zw := gzip.NewWriter(out)
	_, werr := zw.Write(data)
	cerr := zw.Close()
	ferr := out.Close()
	if werr != nil || cerr != nil || ferr != nil {
		_ = os.Remove(path + ".gz")
		return
	}
	_ = os.Remove(path)
}

// Size returns the current log file size in bytes.
func (rw *RotatingWriter) Size() int64 {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	return rw.size
}

// Path returns the active log file path.
func (rw *RotatingWriter) Path() string {
	return rw.path
}

// Close syncs and closes the file and waits for pending compression.
func (rw *RotatingWriter) Close() error {
	rw.mu.Lock()
	var err error
	if rw.file != nil {
		if serr := rw.file.Sync(); serr != nil {
			err = fmt.Errorf("failed to sync log file: %w", serr)
		}
		if cerr := rw.file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close log file: %w", cerr)
		}
		rw.file = nil
	}
	rw.mu.Unlock()

	rw.compressWG.Wait()
	return err
}
