// Package spawn starts the suspend command as a detached child process.
package spawn

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
)

// Command is a best-effort detached command. Suspend starts it and returns
// without waiting; a background goroutine reaps the child.
type Command struct {
	path   string
	args   []string
	logger *slog.Logger
}

// New creates a Command from argv (path followed by arguments).
// If logger is nil, a no-op logger is used.
func New(argv []string, logger *slog.Logger) (*Command, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, errors.New("spawn: empty command")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Command{
		path:   argv[0],
		args:   append([]string(nil), argv[1:]...),
		logger: logger,
	}, nil
}

// Suspend starts the command in its own session.
func (c *Command) Suspend() error {
	cmd := exec.Command(c.path, c.args...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = detachedAttr()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawn: start %s: %w", c.path, err)
	}
	c.logger.Info("suspend command started", "path", c.path, "pid", cmd.Process.Pid)

	go func() {
		if err := cmd.Wait(); err != nil {
			c.logger.Warn("suspend command exited", "path", c.path, "error", err)
			return
		}
		c.logger.Debug("suspend command finished", "path", c.path)
	}()
	return nil
}

// String returns the command line for logging.
func (c *Command) String() string {
	return fmt.Sprintf("%s %v", c.path, c.args)
}

// DryRun writes "sleeping" instead of suspending.
type DryRun struct {
	W io.Writer
}

// Suspend writes one "sleeping" line to W.
func (d DryRun) Suspend() error {
	if _, err := io.WriteString(d.W, "sleeping\n"); err != nil {
		return fmt.Errorf("spawn: dry run: %w", err)
	}
	return nil
}
