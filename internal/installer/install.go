package installer

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
)

// Installer performs the OpenCV installation for one (OS family, variant)
// pair. Implementations must be safe to re-run.
type Installer interface {
	Name() string
	Install(ctx context.Context, environ []string) error
}

// ScriptInstaller runs one of the sibling installer scripts with bash.
type ScriptInstaller struct {
	script string
	dir    string
	runner CommandRunner
}

// NewScriptInstaller returns an installer for dir/script.
func NewScriptInstaller(dir, script string, runner CommandRunner) *ScriptInstaller {
	return &ScriptInstaller{script: script, dir: dir, runner: runner}
}

// Name is the script file name, e.g. "install-ubuntu.sh".
func (s *ScriptInstaller) Name() string {
	return s.script
}

// Path is the script path passed to bash.
func (s *ScriptInstaller) Path() string {
	return filepath.Join(s.dir, s.script)
}

// Install runs the script to completion with the given environment.
func (s *ScriptInstaller) Install(ctx context.Context, environ []string) error {
	if err := s.runner.Run(ctx, "bash", []string{s.Path()}, environ); err != nil {
		return fmt.Errorf("installer %s: %w", s.script, err)
	}
	return nil
}

// exitCoder is satisfied by *exec.ExitError.
type exitCoder interface {
	ExitCode() int
}

var _ exitCoder = (*exec.ExitError)(nil)

// ExitStatus extracts a subprocess exit status from err. It returns false when
// err carries no usable status: the executable never started, or it was
// killed by a signal.
func ExitStatus(err error) (int, bool) {
	var coded exitCoder
	if errors.As(err, &coded) {
		if code := coded.ExitCode(); code >= 0 {
			return code, true
		}
	}
	return 0, false
}
