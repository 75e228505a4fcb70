// Package platform classifies host signatures into the OS families the CI
// installers know how to handle.
package platform

import (
	"fmt"
	"strings"
)

// Family is the OS family a host signature belongs to.
type Family string

const (
	Linux       Family = "linux"
	MacOS       Family = "macos"
	Windows     Family = "windows"
	Unsupported Family = "unsupported"
)

func (f Family) String() string {
	return string(f)
}

// UnsupportedError reports a host signature that no installer can serve.
type UnsupportedError struct {
	Signature string
	Reason    string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s: %q", e.Reason, e.Signature)
}

const (
	reasonNotSupported = "platform not supported"
	reasonUnknown      = "unknown platform"
)

var windowsPrefixes = []string{"cygwin", "msys", "win32"}

// Classify maps a host signature to its family. The checks run in a fixed
// order: Linux, Darwin, the Windows shells, then BSD. BSD and anything
// unrecognized return Unsupported with an *UnsupportedError.
func Classify(signature string) (Family, error) {
	s := strings.ToLower(strings.TrimSpace(signature))

	switch {
	case strings.HasPrefix(s, "linux"):
		return Linux, nil
	case strings.HasPrefix(s, "darwin"):
		return MacOS, nil
	case hasAnyPrefix(s, windowsPrefixes):
		return Windows, nil
	case strings.Contains(s, "bsd"):
		return Unsupported, &UnsupportedError{Signature: signature, Reason: reasonNotSupported}
	default:
		return Unsupported, &UnsupportedError{Signature: signature, Reason: reasonUnknown}
	}
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// goosSignatures maps GOOS values to the OSTYPE a bash on that system reports.
var goosSignatures = map[string]string{
	"linux":   "linux-gnu",
	"darwin":  "darwin",
	"windows": "msys",
	"freebsd": "freebsd",
	"openbsd": "openbsd",
	"netbsd":  "netbsd",
}

// HostSignature returns ostype when it is set. Bash does not export OSTYPE, so
// the runtime GOOS is translated into the equivalent signature otherwise.
func HostSignature(ostype, goos string) string {
	if s := strings.TrimSpace(ostype); s != "" {
		return s
	}
	if s, ok := goosSignatures[goos]; ok {
		return s
	}
	return goos
}
