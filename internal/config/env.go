package config

import (
	"sort"
	"strings"
)

// Environment variable names the dispatcher reads or writes.
const (
	EnvOSType           = "OSTYPE"
	EnvVcpkgVersion     = "VCPKG_VERSION"
	EnvBrewVersion      = "BREW_OPENCV_VERSION"
	EnvCLauncher        = "CMAKE_C_COMPILER_LAUNCHER"
	EnvCXXLauncher      = "CMAKE_CXX_COMPILER_LAUNCHER"
	EnvChocoLLVMVersion = "CHOCO_LLVM_VERSION"
	EnvConfigPath       = "OPENCV_CI_CONFIG"
)

// Env is an immutable snapshot of the process environment. It is taken once
// at startup and passed explicitly; With returns a modified copy.
type Env struct {
	vars map[string]string
}

// NewEnv builds an Env from a map. The map is copied.
func NewEnv(vars map[string]string) Env {
	copied := make(map[string]string, len(vars))
	for k, v := range vars {
		copied[k] = v
	}
	return Env{vars: copied}
}

// EnvFromEnviron parses KEY=VALUE pairs as returned by os.Environ.
// Entries without '=' are ignored; the last duplicate wins.
func EnvFromEnviron(environ []string) Env {
	vars := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = v
	}
	return Env{vars: vars}
}

// Get returns the value of key, or "" when unset.
func (e Env) Get(key string) string {
	return e.vars[key]
}

// Lookup reports whether key is set at all.
func (e Env) Lookup(key string) (string, bool) {
	v, ok := e.vars[key]
	return v, ok
}

// With returns a copy of e with key set to value.
func (e Env) With(key, value string) Env {
	next := NewEnv(e.vars)
	next.vars[key] = value
	return next
}

// Environ renders the snapshot as sorted KEY=VALUE pairs for exec.Cmd.Env.
func (e Env) Environ() []string {
	out := make([]string, 0, len(e.vars))
	for k, v := range e.vars {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

// VcpkgRequested is true when VCPKG_VERSION is non-empty.
func (e Env) VcpkgRequested() bool {
	return e.Get(EnvVcpkgVersion) != ""
}

// BrewRequested is true when BREW_OPENCV_VERSION is non-empty.
func (e Env) BrewRequested() bool {
	return e.Get(EnvBrewVersion) != ""
}
