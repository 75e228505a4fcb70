package installer

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opencv-ci/internal/platform"
)

type call struct {
	executable string
	args       []string
	environ    []string
}

type fakeRunner struct {
	calls []call
	// fail returns the error for a call, or nil.
	fail func(executable string, args []string) error
}

func (f *fakeRunner) Run(_ context.Context, executable string, args []string, environ []string) error {
	f.calls = append(f.calls, call{executable: executable, args: args, environ: environ})
	if f.fail != nil {
		return f.fail(executable, args)
	}
	return nil
}

type codedError struct{ code int }

func (e codedError) Error() string { return "exit status" }
func (e codedError) ExitCode() int { return e.code }

func TestScriptInstaller(t *testing.T) {
	runner := &fakeRunner{}
	inst := NewScriptInstaller("ci", ScriptUbuntu, runner)

	assert.Equal(t, "install-ubuntu.sh", inst.Name())
	assert.Equal(t, filepath.Join("ci", "install-ubuntu.sh"), inst.Path())

	environ := []string{"VCPKG_VERSION="}
	require.NoError(t, inst.Install(context.Background(), environ))
	require.Len(t, runner.calls, 1)
	assert.Equal(t, "bash", runner.calls[0].executable)
	assert.Equal(t, []string{filepath.Join("ci", "install-ubuntu.sh")}, runner.calls[0].args)
	assert.Equal(t, environ, runner.calls[0].environ)
}

func TestScriptInstallerFailureKeepsExitStatus(t *testing.T) {
	runner := &fakeRunner{fail: func(string, []string) error { return codedError{code: 42} }}
	inst := NewScriptInstaller("ci", ScriptMacOSBrew, runner)

	err := inst.Install(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "install-macos-brew.sh")

	code, ok := ExitStatus(err)
	assert.True(t, ok)
	assert.Equal(t, 42, code)
}

func TestExitStatus(t *testing.T) {
	_, ok := ExitStatus(errors.New("exec: not found"))
	assert.False(t, ok)

	_, ok = ExitStatus(codedError{code: -1})
	assert.False(t, ok)

	code, ok := ExitStatus(codedError{code: 0})
	assert.True(t, ok)
	assert.Equal(t, 0, code)
}

func TestExecRunner(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	var stdout bytes.Buffer
	runner := &ExecRunner{Stdout: &stdout}

	require.NoError(t, runner.Run(context.Background(), "sh", []string{"-c", `printf "%s" "$GREETING"`}, []string{"GREETING=hello"}))
	assert.Equal(t, "hello", stdout.String())

	err := runner.Run(context.Background(), "sh", []string{"-c", "exit 3"}, nil)
	require.Error(t, err)
	code, ok := ExitStatus(err)
	assert.True(t, ok)
	assert.Equal(t, 3, code)

	err = runner.Run(context.Background(), "definitely-not-a-real-binary-opencv-ci", nil, nil)
	require.Error(t, err)
	_, ok = ExitStatus(err)
	assert.False(t, ok)
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry("ci", &fakeRunner{})
	assert.Equal(t, 7, r.Len())

	for _, tc := range []struct {
		family         platform.Family
		variant        Variant
		script         string
		requiresConfig bool
	}{
		{platform.Linux, Vcpkg, ScriptUbuntuVcpkg, true},
		{platform.Linux, PackageManager, ScriptUbuntu, true},
		{platform.MacOS, Brew, ScriptMacOSBrew, false},
		{platform.MacOS, Vcpkg, ScriptMacOSVcpkg, false},
		{platform.MacOS, Framework, ScriptMacOSFramework, false},
		{platform.Windows, Vcpkg, ScriptWindowsVcpkg, false},
		{platform.Windows, PackageManager, ScriptWindowsChocolatey, false},
	} {
		t.Run(Key{tc.family, tc.variant}.String(), func(t *testing.T) {
			entry, ok := r.Lookup(tc.family, tc.variant)
			require.True(t, ok)
			assert.Equal(t, tc.script, entry.Installer.Name())
			assert.Equal(t, tc.requiresConfig, entry.RequiresConfig)
		})
	}

	_, ok := r.Lookup(platform.Windows, Brew)
	assert.False(t, ok)
	_, ok = r.Lookup(platform.Unsupported, PackageManager)
	assert.False(t, ok)
}

func newTestReclaimer(runner CommandRunner, root bool, free ...uint64) *Reclaimer {
	r := NewReclaimer(runner)
	r.Paths = []string{"/opt/ghc", "/usr/share/dotnet", "/usr/local/lib/android"}
	r.isRoot = func() bool { return root }
	calls := 0
	r.freeSpace = func(context.Context, string) (uint64, error) {
		if calls >= len(free) {
			return 0, errors.New("statfs failed")
		}
		calls++
		return free[calls-1], nil
	}
	return r
}

func TestReclaimUsesSudoWhenNotRoot(t *testing.T) {
	runner := &fakeRunner{}
	report, err := newTestReclaimer(runner, false, 100, 1100).Reclaim(context.Background())
	require.NoError(t, err)

	require.Len(t, runner.calls, 3)
	assert.Equal(t, "sudo", runner.calls[0].executable)
	assert.Equal(t, []string{"rm", "-rf", "/opt/ghc"}, runner.calls[0].args)
	assert.Nil(t, runner.calls[0].environ)

	assert.Equal(t, []string{"/opt/ghc", "/usr/share/dotnet", "/usr/local/lib/android"}, report.Removed)
	assert.Empty(t, report.Failed)
	assert.Equal(t, uint64(1000), report.Freed)
}

func TestReclaimAsRoot(t *testing.T) {
	runner := &fakeRunner{}
	_, err := newTestReclaimer(runner, true, 0, 0).Reclaim(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, runner.calls)
	assert.Equal(t, "rm", runner.calls[0].executable)
	assert.Equal(t, []string{"-rf", "/opt/ghc"}, runner.calls[0].args)
}

func TestReclaimContinuesPastFailures(t *testing.T) {
	runner := &fakeRunner{fail: func(_ string, args []string) error {
		if args[len(args)-1] == "/usr/share/dotnet" {
			return errors.New("permission denied")
		}
		return nil
	}}

	report, err := newTestReclaimer(runner, false).Reclaim(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remove /usr/share/dotnet")

	assert.Len(t, runner.calls, 3)
	assert.Equal(t, []string{"/opt/ghc", "/usr/local/lib/android"}, report.Removed)
	assert.Equal(t, []string{"/usr/share/dotnet"}, report.Failed)
	assert.Zero(t, report.Freed, "no measurement means nothing is reported as freed")
}
