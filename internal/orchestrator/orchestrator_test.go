package orchestrator

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fullstacktard/claude-clipboard/internal/config"
	"github.com/fullstacktard/claude-clipboard/internal/hostbridge"
	"github.com/fullstacktard/claude-clipboard/internal/install"
	"github.com/fullstacktard/claude-clipboard/internal/launcher"
	"github.com/fullstacktard/claude-clipboard/internal/pipeline"
	"github.com/fullstacktard/claude-clipboard/internal/report"
	"github.com/fullstacktard/claude-clipboard/internal/templates"
	"github.com/fullstacktard/claude-clipboard/internal/testutil"
)

const wslKernel = "Linux version 5.15.167.4-microsoft-standard-WSL2 (root@f9c826d3017f) #1 SMP"

type kernelFile string

func (k kernelFile) ReadFile(string) ([]byte, error) {
	if k == "" {
		return nil, fs.ErrNotExist
	}
	return []byte(k), nil
}

type failingFiles struct {
	install.RealSystem
	err error
}

func (f failingFiles) MkdirAll(string, os.FileMode) error {
	return f.err
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.InstallDir = filepath.Join(t.TempDir(), "share", "claude-clipboard")
	cfg.Dependency.SettleDelay = 0
	cfg.Dependency.VerifyInterval = 0
	cfg.Monitor.VerifyInterval = 0
	return cfg
}

type recorder struct {
	names []string
}

func (r *recorder) observe(res pipeline.StepResult) {
	r.names = append(r.names, res.Name)
}

func outcomes(results pipeline.Results) map[string]pipeline.Outcome {
	out := map[string]pipeline.Outcome{}
	for _, r := range results {
		out[r.Name] = r.Outcome
	}
	return out
}

func TestRunEndToEndInstallsDependency(t *testing.T) {
	host := testutil.NewFakeHost(t)
	cfg := testConfig(t)
	rec := &recorder{}
	o := New(cfg, Deps{Host: host, Probe: kernelFile(wslKernel), Observer: rec.observe})

	outcome, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		report.StepProbe,
		report.StepTarget,
		report.StepGuestScripts,
		report.StepHostScripts,
		report.StepDependency,
		report.StepMonitor,
		report.StepAutoStart,
	}, rec.names)
	for _, r := range outcome.Results {
		assert.Equal(t, pipeline.Success, r.Outcome, "%s: %s", r.Name, r.Detail)
	}
	assert.True(t, outcome.Summary.FullSuccess)
	assert.Empty(t, outcome.Summary.ManualSteps)

	hostDir := host.GuestPath(testutil.FakeUserProfile + `\AppData\Local\claude-clipboard`)
	assert.Equal(t, InstallationTarget{
		GuestInstallDir:       cfg.InstallDir,
		HostInstallDir:        hostDir,
		HostInstallDirWindows: `C:\Users\tester\AppData\Local\claude-clipboard`,
		HostUserProfile:       testutil.FakeUserProfile,
	}, outcome.Target)

	info, err := os.Stat(filepath.Join(cfg.InstallDir, templates.PasteImageScript))
	require.NoError(t, err)
	assert.Equal(t, install.ExecutableMode, info.Mode().Perm())
	_, err = os.Stat(filepath.Join(cfg.InstallDir, "README.md"))
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	monitor, err := os.ReadFile(filepath.Join(hostDir, templates.MonitorScript))
	require.NoError(t, err)
	assert.Contains(t, string(monitor), `$wslScriptPath = "`+filepath.ToSlash(cfg.InstallDir)+`/claude-paste-image"`)

	launches := host.CallsMatching(testutil.LauncherMatch)
	require.Len(t, launches, 2)
	assert.Equal(t, `C:\Users\tester\AppData\Local\claude-clipboard\start-smart-paste.ps1`, launches[0].Args[len(launches[0].Args)-1])
	assert.Equal(t, `C:\Users\tester\AppData\Local\claude-clipboard\start-paste-shortcut.ps1`, launches[1].Args[len(launches[1].Args)-1])
	assert.Equal(t, 1, host.CountMatching("Invoke-WebRequest"))
}

func TestRunNotWSLCreatesNothing(t *testing.T) {
	host := testutil.NewFakeHost(t)
	cfg := testConfig(t)
	o := New(cfg, Deps{Host: host, Probe: kernelFile("Linux version 6.8.0-45-generic")})

	outcome, err := o.Run(context.Background())
	require.ErrorIs(t, err, ErrNotWSL)
	var fatal *pipeline.FatalError
	require.ErrorAs(t, err, &fatal)
	assert.Equal(t, report.StepProbe, fatal.Step)
	require.Len(t, outcome.Results, 1)
	assert.Equal(t, pipeline.Failed, outcome.Results[0].Outcome)

	assert.Empty(t, host.Calls())
	_, err = os.Stat(filepath.Dir(cfg.InstallDir))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	_, err = os.Stat(host.GuestPath(testutil.FakeUserProfile + `\AppData\Local\claude-clipboard`))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestRunMissingVersionFileIsNotWSL(t *testing.T) {
	o := New(testConfig(t), Deps{Host: testutil.NewFakeHost(t), Probe: kernelFile("")})
	_, err := o.Run(context.Background())
	assert.ErrorIs(t, err, ErrNotWSL)
}

func TestRunDependencyFailureSkipsLaunchers(t *testing.T) {
	host := testutil.NewFakeHost(t)
	host.OnExit("Invoke-WebRequest", 1, "Invoke-WebRequest : Unable to connect to the remote server")
	o := New(testConfig(t), Deps{Host: host, Probe: kernelFile(wslKernel)})

	outcome, err := o.Run(context.Background())
	require.NoError(t, err)

	got := outcomes(outcome.Results)
	assert.Equal(t, pipeline.Success, got[report.StepGuestScripts])
	assert.Equal(t, pipeline.Success, got[report.StepHostScripts])
	assert.Equal(t, pipeline.Warning, got[report.StepDependency])
	assert.Equal(t, pipeline.Skipped, got[report.StepMonitor])
	assert.Equal(t, pipeline.Skipped, got[report.StepAutoStart])
	assert.Zero(t, host.CountMatching(testutil.LauncherMatch))

	assert.False(t, outcome.Summary.FullSuccess)
	require.Len(t, outcome.Summary.ManualSteps, 2)
	assert.Contains(t, outcome.Summary.ManualSteps[0], "https://www.autohotkey.com/")
	assert.Contains(t, outcome.Summary.ManualSteps[1], `C:\Users\tester\AppData\Local\claude-clipboard`)
}

func TestRunMonitorFailureStillConfiguresAutoStart(t *testing.T) {
	host := testutil.NewFakeHost(t)
	host.CreateHostFile(t, testutil.FakeDependencyPath, []byte("exe"))
	host.OnExit(`-File C:\Users\tester\AppData\Local\claude-clipboard\start-smart-paste.ps1`, 1, "running scripts is disabled on this system")
	o := New(testConfig(t), Deps{Host: host, Probe: kernelFile(wslKernel)})

	outcome, err := o.Run(context.Background())
	require.NoError(t, err)

	got := outcomes(outcome.Results)
	assert.Equal(t, pipeline.Success, got[report.StepDependency])
	assert.Equal(t, pipeline.Warning, got[report.StepMonitor])
	assert.Equal(t, pipeline.Success, got[report.StepAutoStart])
	assert.Zero(t, host.CountMatching("Invoke-WebRequest"))
	require.Len(t, outcome.Summary.ManualSteps, 1)
	assert.Contains(t, outcome.Summary.ManualSteps[0], `.\start-smart-paste.ps1`)

	monitor, ok := outcome.Results.Lookup(report.StepMonitor)
	require.True(t, ok)
	assert.Contains(t, monitor.Detail, `cd "C:\Users\tester\AppData\Local\claude-clipboard"; .\start-smart-paste.ps1`)
}

func TestRunMonitorProcessMissingIsWarning(t *testing.T) {
	host := testutil.NewFakeHost(t)
	host.CreateHostFile(t, testutil.FakeDependencyPath, []byte("exe"))
	host.MonitorProcess = ""
	cfg := testConfig(t)
	cfg.Monitor.VerifyAttempts = 2
	o := New(cfg, Deps{Host: host, Probe: kernelFile(wslKernel)})

	outcome, err := o.Run(context.Background())
	require.NoError(t, err)

	monitor, ok := outcome.Results.Lookup(report.StepMonitor)
	require.True(t, ok)
	assert.Equal(t, pipeline.Warning, monitor.Outcome)
	assert.ErrorIs(t, monitor.Err, launcher.ErrMonitorNotRunning)
	assert.Equal(t, 2, host.CountMatching("Get-Process"))
	assert.Equal(t, pipeline.Success, outcomes(outcome.Results)[report.StepAutoStart])
	assert.False(t, outcome.Summary.FullSuccess)
}

func TestRunWithoutMonitorTemplateSkipsPatch(t *testing.T) {
	host := testutil.NewFakeHost(t)
	host.CreateHostFile(t, testutil.FakeDependencyPath, []byte("exe"))
	tmpl := fstest.MapFS{
		"clipboard/claude-paste-image":      {Data: []byte("#!/usr/bin/env bash\n")},
		"autohotkey/claude-smart-paste.ahk": {Data: []byte("#Requires AutoHotkey v2.0\n")},
	}
	o := New(testConfig(t), Deps{Host: host, Probe: kernelFile(wslKernel), Templates: tmpl})

	outcome, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, pipeline.Success, outcomes(outcome.Results)[report.StepHostScripts])
	_, err = os.Stat(filepath.Join(outcome.Target.HostInstallDir, "claude-smart-paste.ahk"))
	assert.NoError(t, err)
}

func TestRunProfileFailureIsFatal(t *testing.T) {
	host := testutil.NewFakeHost(t)
	delete(host.Env, "USERPROFILE")
	cfg := testConfig(t)
	o := New(cfg, Deps{Host: host, Probe: kernelFile(wslKernel)})

	outcome, err := o.Run(context.Background())
	var fatal *pipeline.FatalError
	require.ErrorAs(t, err, &fatal)
	assert.Equal(t, report.StepTarget, fatal.Step)
	assert.Contains(t, err.Error(), "Windows user profile")
	assert.Len(t, outcome.Results, 2)
	_, statErr := os.Stat(cfg.InstallDir)
	assert.True(t, errors.Is(statErr, fs.ErrNotExist))
}

func TestRunHostDirDisplayFallback(t *testing.T) {
	host := testutil.NewFakeHost(t)
	host.CreateHostFile(t, testutil.FakeDependencyPath, []byte("exe"))
	host.On("wslpath -w", func(testutil.Call) (hostbridge.Result, error) {
		return hostbridge.Result{ExitCode: 1, Stderr: "wslpath: failed"}, nil
	})
	o := New(testConfig(t), Deps{Host: host, Probe: kernelFile(wslKernel)})

	outcome, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `C:\Users\tester\AppData\Local\claude-clipboard`, outcome.Target.HostInstallDirWindows)
	// Launchers need the host path and degrade to warnings.
	got := outcomes(outcome.Results)
	assert.Equal(t, pipeline.Warning, got[report.StepMonitor])
	assert.Equal(t, pipeline.Warning, got[report.StepAutoStart])
}

func TestRunHostDirDisplayPlaceholder(t *testing.T) {
	host := testutil.NewFakeHost(t)
	host.CreateHostFile(t, testutil.FakeDependencyPath, []byte("exe"))
	host.OnExit("wslpath -w", 1, "wslpath: failed")
	// The profile resolves once for the target, then the display lookup fails.
	host.OnSequence("%USERPROFILE%",
		hostbridge.Result{Stdout: testutil.FakeUserProfile + "\r\n"},
		hostbridge.Result{Stdout: "%USERPROFILE%\r\n"},
	)
	o := New(testConfig(t), Deps{Host: host, Probe: kernelFile(wslKernel)})

	outcome, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `C:\Users\YourUsername\AppData\Local\claude-clipboard`, outcome.Target.HostInstallDirWindows)
	assert.Equal(t, testutil.FakeUserProfile, outcome.Target.HostUserProfile)
	assert.Equal(t, host.GuestPath(testutil.FakeUserProfile+`\AppData\Local\claude-clipboard`), outcome.Target.HostInstallDir)
}

func TestRunCopyFailureIsFatal(t *testing.T) {
	host := testutil.NewFakeHost(t)
	boom := errors.New("read-only file system")
	o := New(testConfig(t), Deps{Host: host, Probe: kernelFile(wslKernel), Files: failingFiles{err: boom}})

	outcome, err := o.Run(context.Background())
	require.ErrorIs(t, err, boom)
	var fatal *pipeline.FatalError
	require.ErrorAs(t, err, &fatal)
	assert.Equal(t, report.StepGuestScripts, fatal.Step)
	assert.Len(t, outcome.Results, 3)
	assert.Zero(t, host.CountMatching("Test-Path"))
}

func TestRunTwiceIsIdempotent(t *testing.T) {
	host := testutil.NewFakeHost(t)
	cfg := testConfig(t)
	hostDir := host.GuestPath(testutil.FakeUserProfile + `\AppData\Local\claude-clipboard`)

	first, err := New(cfg, Deps{Host: host, Probe: kernelFile(wslKernel)}).Run(context.Background())
	require.NoError(t, err)
	require.True(t, first.Summary.FullSuccess)
	monitorAfterFirst, err := os.ReadFile(filepath.Join(hostDir, templates.MonitorScript))
	require.NoError(t, err)

	second, err := New(cfg, Deps{Host: host, Probe: kernelFile(wslKernel)}).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, second.Summary.FullSuccess)
	monitorAfterSecond, err := os.ReadFile(filepath.Join(hostDir, templates.MonitorScript))
	require.NoError(t, err)

	assert.Equal(t, string(monitorAfterFirst), string(monitorAfterSecond))
	assert.Equal(t, 1, host.CountMatching("Invoke-WebRequest"))
	assert.Equal(t, 1, host.CountMatching("Start-Process"))
}

func TestRunCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o := New(testConfig(t), Deps{Host: testutil.NewFakeHost(t), Probe: kernelFile(wslKernel)})

	_, err := o.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
