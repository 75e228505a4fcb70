package installer

import (
	"fmt"

	"opencv-ci/internal/platform"
)

// Variant is the installation strategy selected for an OS family.
type Variant string

const (
	Vcpkg          Variant = "vcpkg"
	Brew           Variant = "brew"
	PackageManager Variant = "package-manager"
	Framework      Variant = "framework"
)

func (v Variant) String() string {
	return string(v)
}

// Key identifies a registry entry.
type Key struct {
	Family  platform.Family
	Variant Variant
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s", k.Family, k.Variant)
}

// Entry is a registered installer plus whether it reads the companion config.
type Entry struct {
	Installer      Installer
	RequiresConfig bool
}

// Registry maps (family, variant) pairs to installers.
type Registry struct {
	entries map[Key]Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[Key]Entry)}
}

// Register adds or replaces the installer for (family, variant).
func (r *Registry) Register(family platform.Family, variant Variant, inst Installer, requiresConfig bool) {
	r.entries[Key{Family: family, Variant: variant}] = Entry{Installer: inst, RequiresConfig: requiresConfig}
}

// Lookup returns the entry for (family, variant).
func (r *Registry) Lookup(family platform.Family, variant Variant) (Entry, bool) {
	e, ok := r.entries[Key{Family: family, Variant: variant}]
	return e, ok
}

// Len is the number of registered entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Script names of the sibling installers, relative to the scripts directory.
const (
	ScriptUbuntu            = "install-ubuntu.sh"
	ScriptUbuntuVcpkg       = "install-ubuntu-vcpkg.sh"
	ScriptMacOSBrew         = "install-macos-brew.sh"
	ScriptMacOSVcpkg        = "install-macos-vcpkg.sh"
	ScriptMacOSFramework    = "install-macos-framework.sh"
	ScriptWindowsVcpkg      = "install-windows-vcpkg.sh"
	ScriptWindowsChocolatey = "install-windows-chocolatey.sh"
)

// DefaultRegistry wires every sibling script in scriptsDir. Only the Linux
// installers read the companion config file.
func DefaultRegistry(scriptsDir string, runner CommandRunner) *Registry {
	r := NewRegistry()
	add := func(family platform.Family, variant Variant, script string, requiresConfig bool) {
		r.Register(family, variant, NewScriptInstaller(scriptsDir, script, runner), requiresConfig)
	}

	add(platform.Linux, Vcpkg, ScriptUbuntuVcpkg, true)
	add(platform.Linux, PackageManager, ScriptUbuntu, true)

	add(platform.MacOS, Brew, ScriptMacOSBrew, false)
	add(platform.MacOS, Vcpkg, ScriptMacOSVcpkg, false)
	add(platform.MacOS, Framework, ScriptMacOSFramework, false)

	add(platform.Windows, Vcpkg, ScriptWindowsVcpkg, false)
	add(platform.Windows, PackageManager, ScriptWindowsChocolatey, false)

	return r
}
