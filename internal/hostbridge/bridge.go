// Package hostbridge runs commands on the Windows host from inside WSL.
//
// Every interaction with the host (environment lookups, path conversion,
// PowerShell queries, installer and launcher runs) goes through the Bridge
// interface so components can be exercised against a fake in tests.
package hostbridge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fullstacktard/claude-clipboard/internal/messages"
)

// Host executables reachable through WSL interop.
const (
	CmdExe        = "cmd.exe"
	PowerShellExe = "powershell.exe"
	WSLPathExe    = "wslpath"
)

// DefaultTimeout bounds a single host command when no timeout is configured.
const DefaultTimeout = 2 * time.Minute

// waitDelay bounds how long Run waits for output pipes after the process is killed.
const waitDelay = 2 * time.Second

// ErrTimeout reports that a host command did not exit before its deadline.
var ErrTimeout = errors.New("host command deadline exceeded")

// Bridge executes a host command and returns its captured output.
// A non-zero exit is reported through Result.ExitCode, not as an error;
// errors are reserved for commands that could not be started or timed out.
type Bridge interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// Result is the captured outcome of one host command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// ExitError reports a host command that exited with a non-zero status.
type ExitError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	stderr := TrimOutput(e.Stderr)
	if stderr == "" {
		return fmt.Sprintf(messages.HostBridgeExitFmt, e.Command, e.ExitCode)
	}
	return fmt.Sprintf(messages.HostBridgeExitStderrFmt, e.Command, e.ExitCode, firstLine(stderr))
}

// ExecBridge runs host commands as local processes. Under WSL, *.exe names on
// PATH are forwarded to Windows by the interop layer.
type ExecBridge struct {
	timeout time.Duration
	log     zerolog.Logger
}

// NewExecBridge returns an ExecBridge that kills commands running longer than timeout.
// A non-positive timeout selects DefaultTimeout.
func NewExecBridge(timeout time.Duration, log zerolog.Logger) *ExecBridge {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ExecBridge{timeout: timeout, log: log}
}

// Run starts name with args, waits for it to exit, and captures stdout and stderr.
func (b *ExecBridge) Run(ctx context.Context, name string, args ...string) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	cmdLine := CommandLine(name, args...)
	b.log.Debug().Str("command", cmdLine).Msg("running host command")

	cmd := exec.CommandContext(ctx, name, args...)
	// Grandchildren can hold the output pipes open after a kill; stop waiting on them.
	cmd.WaitDelay = waitDelay
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return Result{ExitCode: -1}, fmt.Errorf(messages.HostBridgeStartFailedFmt, name, err)
	}
	waitErr := cmd.Wait()

	result := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		result.ExitCode = -1
		return result, fmt.Errorf(messages.HostBridgeTimeoutFmt+": %w", name, b.timeout, ErrTimeout)
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		result.ExitCode = -1
		return result, ctx.Err()
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) && exitErr.ProcessState != nil {
			result.ExitCode = exitErr.ProcessState.ExitCode()
		} else {
			result.ExitCode = 1
		}
	} else if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	b.log.Debug().
		Str("command", cmdLine).
		Int("exit_code", result.ExitCode).
		Str("stdout", TrimOutput(result.Stdout)).
		Str("stderr", TrimOutput(result.Stderr)).
		Msg("host command finished")
	return result, nil
}

// Output runs a host command and returns its trimmed stdout.
// A non-zero exit status is returned as *ExitError.
func Output(ctx context.Context, b Bridge, name string, args ...string) (string, error) {
	res, err := b.Run(ctx, name, args...)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", &ExitError{Command: CommandLine(name, args...), ExitCode: res.ExitCode, Stderr: res.Stderr}
	}
	return TrimOutput(res.Stdout), nil
}

// PowerShell runs script with a non-interactive powershell.exe and returns trimmed stdout.
func PowerShell(ctx context.Context, b Bridge, script string) (string, error) {
	return Output(ctx, b, PowerShellExe, PowerShellArgs(script)...)
}

// PowerShellArgs returns the powershell.exe arguments used to run an inline script.
func PowerShellArgs(script string) []string {
	return []string{"-NoProfile", "-NonInteractive", "-Command", script}
}

// PowerShellFileArgs returns the powershell.exe arguments used to run a script file
// with the execution policy bypassed for this invocation only.
func PowerShellFileArgs(hostScriptPath string) []string {
	return []string{"-NoProfile", "-ExecutionPolicy", "Bypass", "-File", hostScriptPath}
}

// QuotePS quotes s as a single-quoted PowerShell string literal.
func QuotePS(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// CommandLine renders name and args for logs and error messages.
func CommandLine(name string, args ...string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}

func firstLine(s string) string {
	if idx := strings.IndexAny(s, "\r\n"); idx >= 0 {
		return s[:idx]
	}
	return s
}
