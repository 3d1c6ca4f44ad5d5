// Package launcher runs the installed PowerShell launcher scripts on the host.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/fullstacktard/claude-clipboard/internal/hostbridge"
	"github.com/fullstacktard/claude-clipboard/internal/messages"
)

// ErrMonitorNotRunning reports that no AutoHotkey process appeared after the
// monitor launcher exited successfully.
var ErrMonitorNotRunning = errors.New(messages.LauncherMonitorNotRunning)

// monitorProcessScript lists the executables of running AutoHotkey processes.
const monitorProcessScript = "Get-Process -Name 'AutoHotkey*' -ErrorAction SilentlyContinue | Select-Object -ExpandProperty Path"

// processMarker identifies the monitor runtime in the process listing.
const processMarker = "AutoHotkey"

// Options controls monitor verification.
type Options struct {
	// VerifyAttempts is how many times the process list is checked. Values below 1 check once.
	VerifyAttempts int
	// VerifyInterval separates the checks.
	VerifyInterval time.Duration
}

// PathConverter converts guest paths to their host form.
type PathConverter interface {
	ToHostPath(ctx context.Context, guestPath string) (string, error)
}

// Launcher executes host scripts through the bridge.
type Launcher struct {
	host  hostbridge.Bridge
	paths PathConverter
	opts  Options
	log   zerolog.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

// New returns a Launcher.
func New(host hostbridge.Bridge, paths PathConverter, opts Options, log zerolog.Logger) *Launcher {
	if opts.VerifyAttempts < 1 {
		opts.VerifyAttempts = 1
	}
	return &Launcher{host: host, paths: paths, opts: opts, log: log, sleep: sleepContext}
}

// StartMonitor runs the script that starts the clipboard monitor, then waits
// for an AutoHotkey process to show up.
// scriptPath is the guest-side path of the installed script.
func (l *Launcher) StartMonitor(ctx context.Context, scriptPath string) error {
	if err := l.runScript(ctx, scriptPath); err != nil {
		return err
	}
	return l.verifyMonitor(ctx)
}

// ConfigureAutoStart runs the script that registers the monitor for login start.
// scriptPath is the guest-side path of the installed script.
func (l *Launcher) ConfigureAutoStart(ctx context.Context, scriptPath string) error {
	return l.runScript(ctx, scriptPath)
}

func (l *Launcher) runScript(ctx context.Context, scriptPath string) error {
	hostPath, err := l.paths.ToHostPath(ctx, scriptPath)
	if err != nil {
		return fmt.Errorf(messages.LauncherHostPathFailedFmt, scriptPath, err)
	}
	res, err := l.host.Run(ctx, hostbridge.PowerShellExe, hostbridge.PowerShellFileArgs(hostPath)...)
	if err != nil {
		return fmt.Errorf(messages.LauncherScriptFailedFmt, hostPath, err)
	}
	l.log.Debug().
		Str("script", hostPath).
		Int("exit_code", res.ExitCode).
		Str("stdout", hostbridge.TrimOutput(res.Stdout)).
		Str("stderr", hostbridge.TrimOutput(res.Stderr)).
		Msg("launcher script finished")
	if res.ExitCode != 0 {
		exitErr := &hostbridge.ExitError{
			Command:  hostbridge.CommandLine(hostbridge.PowerShellExe, hostbridge.PowerShellFileArgs(hostPath)...),
			ExitCode: res.ExitCode,
			Stderr:   res.Stderr,
		}
		return fmt.Errorf(messages.LauncherScriptFailedFmt, hostPath, exitErr)
	}
	return nil
}

// verifyMonitor polls the host process list for the monitor runtime.
func (l *Launcher) verifyMonitor(ctx context.Context) error {
	for attempt := 1; attempt <= l.opts.VerifyAttempts; attempt++ {
		if attempt > 1 {
			if err := l.sleep(ctx, l.opts.VerifyInterval); err != nil {
				return err
			}
		}
		out, err := hostbridge.PowerShell(ctx, l.host, monitorProcessScript)
		if err != nil {
			return fmt.Errorf(messages.LauncherProcessQueryFailedFmt, err)
		}
		if path, ok := hostbridge.ParseExistingPath(out, processMarker); ok {
			l.log.Debug().Str("process", path).Int("attempt", attempt).Msg("clipboard monitor running")
			return nil
		}
		l.log.Debug().Int("attempt", attempt).Msg("clipboard monitor not running yet")
	}
	return ErrMonitorNotRunning
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
