// Package dispatch picks and runs the OpenCV installer for the current host.
//
// A dispatch classifies the host signature, reads the variant flags from an
// immutable environment snapshot, and runs exactly one installer from the
// registry. Every step is fatal on error except disk-space reclamation on
// Linux, which is logged and ignored.
package dispatch

import (
	"context"
	"os/exec"
	"path/filepath"

	"opencv-ci/internal/config"
	"opencv-ci/internal/installer"
	"opencv-ci/internal/logger"
	"opencv-ci/internal/platform"
)

const (
	// RecognizedLauncher is the compiler launcher whose bare name CMake's
	// vcpkg toolchain cannot resolve, so it is rewritten to an absolute path.
	RecognizedLauncher = "sccache"
	// WindowsLLVMVersion is the LLVM toolchain the Windows installers pin.
	WindowsLLVMVersion = "20.1.8"
)

var launcherVars = []string{config.EnvCLauncher, config.EnvCXXLauncher}

// Reclaimer frees disk space before a Linux install.
type Reclaimer interface {
	Reclaim(ctx context.Context) (installer.ReclaimReport, error)
}

// Options configures a Dispatcher. Registry is required; nil function fields
// fall back to exec.LookPath and config.LoadConfig.
type Options struct {
	Registry   *installer.Registry
	Reclaimer  Reclaimer
	LookPath   func(file string) (string, error)
	LoadConfig func(path string) (*config.Config, error)
	ConfigPath string
}

// Dispatcher maps a host to one installer and runs it.
type Dispatcher struct {
	registry   *installer.Registry
	reclaimer  Reclaimer
	lookPath   func(string) (string, error)
	loadConfig func(string) (*config.Config, error)
	configPath string
}

// New returns a Dispatcher for opts.
func New(opts Options) *Dispatcher {
	d := &Dispatcher{
		registry:   opts.Registry,
		reclaimer:  opts.Reclaimer,
		lookPath:   opts.LookPath,
		loadConfig: opts.LoadConfig,
		configPath: opts.ConfigPath,
	}
	if d.lookPath == nil {
		d.lookPath = exec.LookPath
	}
	if d.loadConfig == nil {
		d.loadConfig = config.LoadConfig
	}
	return d
}

// Override is one environment variable a dispatch sets for the installer.
type Override struct {
	Key   string
	Value string
}

// Plan is what a dispatch would do, computed without side effects.
type Plan struct {
	Signature      string
	Family         platform.Family
	Variant        installer.Variant
	Installer      installer.Installer
	RequiresConfig bool
	Overrides      []Override
	// Env is the installer environment: the input snapshot plus Overrides.
	Env config.Env
}

// SelectVariant applies the per-family flag precedence. The first matching
// flag wins and flags are never checked against each other.
func SelectVariant(family platform.Family, env config.Env) installer.Variant {
	switch family {
	case platform.MacOS:
		switch {
		case env.BrewRequested():
			return installer.Brew
		case env.VcpkgRequested():
			return installer.Vcpkg
		default:
			return installer.Framework
		}
	default:
		if env.VcpkgRequested() {
			return installer.Vcpkg
		}
		return installer.PackageManager
	}
}

// Plan classifies signature and selects the installer and environment
// overrides. It only reads PATH; nothing is deleted or executed.
func (d *Dispatcher) Plan(signature string, env config.Env) (*Plan, error) {
	family, err := platform.Classify(signature)
	if err != nil {
		return nil, unsupported(signature, err)
	}

	plan := &Plan{
		Signature: signature,
		Family:    family,
		Variant:   SelectVariant(family, env),
	}

	switch family {
	case platform.Linux:
		overrides, err := d.resolveLaunchers(env)
		if err != nil {
			return nil, err
		}
		plan.Overrides = overrides
	case platform.Windows:
		plan.Overrides = []Override{{Key: config.EnvChocoLLVMVersion, Value: WindowsLLVMVersion}}
	}

	entry, ok := d.registry.Lookup(family, plan.Variant)
	if !ok {
		return nil, &NoInstallerError{Key: installer.Key{Family: family, Variant: plan.Variant}}
	}
	plan.Installer = entry.Installer
	plan.RequiresConfig = entry.RequiresConfig

	plan.Env = env
	for _, o := range plan.Overrides {
		plan.Env = plan.Env.With(o.Key, o.Value)
	}
	return plan, nil
}

// resolveLaunchers rewrites launcher variables naming RecognizedLauncher to
// the launcher's absolute path.
func (d *Dispatcher) resolveLaunchers(env config.Env) ([]Override, error) {
	var overrides []Override
	for _, key := range launcherVars {
		if env.Get(key) != RecognizedLauncher {
			continue
		}
		resolved, err := d.lookPath(RecognizedLauncher)
		if err == nil {
			resolved, err = filepath.Abs(resolved)
		}
		if err != nil {
			return nil, &LauncherResolutionError{Variable: key, Launcher: RecognizedLauncher, Err: err}
		}
		logger.Debug("[DEBUG] Resolved %s=%s to %s\n", key, RecognizedLauncher, resolved)
		overrides = append(overrides, Override{Key: key, Value: resolved})
	}
	return overrides, nil
}

// Dispatch runs the whole flow for signature: classify, reclaim disk space
// (Linux only, best effort), plan, check the companion config when the
// installer needs it, and run the installer once.
func (d *Dispatcher) Dispatch(ctx context.Context, signature string, env config.Env) error {
	family, err := platform.Classify(signature)
	if err != nil {
		return unsupported(signature, err)
	}
	logger.Info("[INFO] Host %q classified as %s\n", signature, family)

	if family == platform.Linux {
		d.reclaim(ctx)
	}

	plan, err := d.Plan(signature, env)
	if err != nil {
		return err
	}

	installEnv := plan.Env
	if plan.RequiresConfig {
		cfg, err := d.loadConfig(d.configPath)
		if err != nil {
			return &ConfigError{Path: d.configPath, Err: err}
		}
		logger.Debug("[DEBUG] Companion config %s validated (%d versions)\n", cfg.Path, len(cfg.Versions))
		installEnv = installEnv.With(config.EnvConfigPath, cfg.Path)
	}

	name := plan.Installer.Name()
	logger.Info("[INFO] Running %s installer %s\n", plan.Variant, name)
	if err := plan.Installer.Install(ctx, installEnv.Environ()); err != nil {
		status, _ := installer.ExitStatus(err)
		return &InstallerError{Name: name, ExitStatus: status, Err: err}
	}
	logger.Info("[INFO] Installer %s finished\n", name)
	return nil
}

// reclaim never fails the dispatch: its error is logged and dropped.
func (d *Dispatcher) reclaim(ctx context.Context) {
	if d.reclaimer == nil {
		return
	}
	if _, err := d.reclaimer.Reclaim(ctx); err != nil {
		logger.Warn("[WARN] Disk space reclamation incomplete, continuing: %v\n", err)
	}
}
