package preview

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// OpenCommand returns the command line used to open a URL externally.
// configured wins when set; it may contain arguments, and the URL is appended.
func OpenCommand(goos, configured string) []string {
	if fields := strings.Fields(configured); len(fields) > 0 {
		return fields
	}
	switch goos {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler"}
	default:
		return []string{"xdg-open"}
	}
}

// Opener launches an external viewer for preview URLs.
type Opener struct {
	command []string
	start   func(ctx context.Context, name string, args ...string) error
}

// NewOpener creates an Opener for this platform. configured overrides the
// platform default.
func NewOpener(configured string) *Opener {
	return &Opener{
		command: OpenCommand(runtime.GOOS, configured),
		start:   startDetached,
	}
}

// Command returns the command line without the URL.
func (o *Opener) Command() []string {
	return append([]string(nil), o.command...)
}

// Open starts the viewer on url and returns once it has been launched.
func (o *Opener) Open(ctx context.Context, url string) error {
	if url == "" {
		return fmt.Errorf("no preview to open")
	}
	args := append(o.Command()[1:], url)
	if err := o.start(ctx, o.command[0], args...); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	return nil
}

func startDetached(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	// Reap the child so it does not linger as a zombie.
	go func() { _ = cmd.Wait() }()
	return nil
}
