package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"opencv-ci/internal/config"
	"opencv-ci/internal/dispatch"
	"opencv-ci/internal/installer"
	"opencv-ci/internal/logger"
	"opencv-ci/internal/platform"
)

const (
	appName   = "opencv-ci"
	envPrefix = "OPENCV_CI"

	keyConfig     = "config"
	keyScriptsDir = "scripts-dir"
	keyDebug      = "debug"
	keyLogFormat  = "log-format"

	defaultConfigPath = "ci/config.yaml"
	defaultScriptsDir = "ci"
)

// app carries what every command needs: the viper instance holding flag and
// OPENCV_CI_* values, and the environment snapshot taken at startup.
type app struct {
	settings *viper.Viper
	env      config.Env
	stdout   io.Writer
	stderr   io.Writer
	// newRunner builds the command runner for installers and the reclaimer.
	newRunner func() installer.CommandRunner
}

// Execute runs the CLI against the real process and returns the exit code.
func Execute() int {
	return run(context.Background(), os.Args[1:], os.Environ(), os.Stdout, os.Stderr)
}

func run(ctx context.Context, args, environ []string, stdout, stderr io.Writer) int {
	a := &app{
		settings: newSettings(),
		env:      config.EnvFromEnviron(environ),
		stdout:   stdout,
		stderr:   stderr,
	}
	a.newRunner = func() installer.CommandRunner {
		return &installer.ExecRunner{Stdout: a.stdout, Stderr: a.stderr}
	}

	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	defer logger.Sync()
	err := root.ExecuteContext(ctx)
	if err != nil {
		logger.Error("[ERROR] %v\n", err)
	}
	return exitCode(err)
}

func newSettings() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault(keyConfig, defaultConfigPath)
	v.SetDefault(keyScriptsDir, defaultScriptsDir)
	v.SetDefault(keyDebug, false)
	v.SetDefault(keyLogFormat, logger.FormatConsole)
	return v
}

// newRootCommand builds the command tree. Running the root command with no
// arguments performs the dispatch.
func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Install OpenCV for the current CI host",
		Long:          "Detects the host OS family and runs the matching OpenCV installer script (apt, vcpkg, Homebrew, Chocolatey or the prebuilt framework).",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,

		// Logging is configured before any subcommand so flag and env values apply.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Init(a.settings.GetBool(keyDebug), a.settings.GetString(keyLogFormat))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dispatcher().Dispatch(cmd.Context(), a.hostSignature(), a.env)
		},
	}

	root.PersistentFlags().AddFlagSet(globalFlags(a.settings))

	root.AddCommand(newPlanCommand(a))
	root.AddCommand(newEnvCommand(a))
	return root
}

// globalFlags declares the flags shared by every command. Defaults come from
// the settings so OPENCV_CI_* variables show up in --help.
func globalFlags(settings *viper.Viper) *pflag.FlagSet {
	flags := pflag.NewFlagSet("global", pflag.ContinueOnError)
	flags.StringP(keyConfig, "c", settings.GetString(keyConfig), "Path to the companion configuration file")
	flags.String(keyScriptsDir, settings.GetString(keyScriptsDir), "Directory containing the installer scripts")
	flags.Bool(keyDebug, settings.GetBool(keyDebug), "Enable debug logging")
	flags.String(keyLogFormat, settings.GetString(keyLogFormat), "Log format (console or json)")
	for _, key := range []string{keyConfig, keyScriptsDir, keyDebug, keyLogFormat} {
		_ = settings.BindPFlag(key, flags.Lookup(key))
	}
	return flags
}

func (a *app) hostSignature() string {
	return platform.HostSignature(a.env.Get(config.EnvOSType), runtime.GOOS)
}

func (a *app) dispatcher() *dispatch.Dispatcher {
	runner := a.newRunner()
	return dispatch.New(dispatch.Options{
		Registry:   installer.DefaultRegistry(a.settings.GetString(keyScriptsDir), runner),
		Reclaimer:  installer.NewReclaimer(runner),
		ConfigPath: a.settings.GetString(keyConfig),
	})
}

// exitCode maps a command error to the process exit status. A failed
// installer's own status is passed through unchanged.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var installErr *dispatch.InstallerError
	if errors.As(err, &installErr) && installErr.ExitStatus > 0 {
		return installErr.ExitStatus
	}
	return 1
}
