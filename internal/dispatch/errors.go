package dispatch

import (
	"fmt"

	"opencv-ci/internal/installer"
)

// UnsupportedPlatformError is returned for BSD and unrecognized host signatures.
type UnsupportedPlatformError struct {
	Signature string
	Err       error
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("unsupported platform: %v", e.Err)
}

func (e *UnsupportedPlatformError) Unwrap() error { return e.Err }

// LauncherResolutionError is returned when a compiler launcher variable names
// the recognized launcher but the binary is not on PATH.
type LauncherResolutionError struct {
	Variable string
	Launcher string
	Err      error
}

func (e *LauncherResolutionError) Error() string {
	return fmt.Sprintf("resolve %s=%s: %v", e.Variable, e.Launcher, e.Err)
}

func (e *LauncherResolutionError) Unwrap() error { return e.Err }

// ConfigError is returned when an installer needs the companion config file
// and it is missing or invalid.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("companion config unavailable: %v", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NoInstallerError means the registry has no entry for the selected pair.
type NoInstallerError struct {
	Key installer.Key
}

func (e *NoInstallerError) Error() string {
	return fmt.Sprintf("no installer registered for %s", e.Key)
}

// InstallerError is returned when the delegated installer fails. ExitStatus is
// 0 when the failure carried no exit status (e.g. bash could not be started).
type InstallerError struct {
	Name       string
	ExitStatus int
	Err        error
}

func (e *InstallerError) Error() string {
	if e.ExitStatus != 0 {
		return fmt.Sprintf("installer %s failed with exit status %d: %v", e.Name, e.ExitStatus, e.Err)
	}
	return fmt.Sprintf("installer %s failed: %v", e.Name, e.Err)
}

func (e *InstallerError) Unwrap() error { return e.Err }

func unsupported(signature string, err error) error {
	return &UnsupportedPlatformError{Signature: signature, Err: err}
}
