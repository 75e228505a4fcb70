package installer

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"opencv-ci/internal/logger"
)

// CommandRunner executes external commands. Tests substitute a fake.
type CommandRunner interface {
	Run(ctx context.Context, executable string, args []string, environ []string) error
}

// ExecRunner runs commands with os/exec, streaming their output to Stdout and
// Stderr (the process's own streams when nil).
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns a runner attached to the process's stdout and stderr.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run executes the command and waits for it to exit. A nil environ inherits
// the current process environment. A nonzero exit is returned wrapped, so
// callers can recover the *exec.ExitError with errors.As.
func (r *ExecRunner) Run(ctx context.Context, executable string, args []string, environ []string) error {
	cmd := exec.CommandContext(ctx, executable, args...)
	cmd.Env = environ
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	logger.Debug("[DEBUG] Running command: %s %s\n", executable, strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run %s: %w", executable, err)
	}
	return nil
}
