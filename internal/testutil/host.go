package testutil

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fullstacktard/claude-clipboard/internal/hostbridge"
	"github.com/fullstacktard/claude-clipboard/internal/templates"
)

// Default host identity used by FakeHost.
const (
	FakeUserProfile = `C:\Users\tester`
	FakeTempDir     = `C:\Users\tester\AppData\Local\Temp`
	FakeDistro      = "Ubuntu"
	// FakeDependencyPath is where the simulated AutoHotkey installer places the runtime.
	FakeDependencyPath = `C:\Program Files\AutoHotkey\v2\AutoHotkey.exe`
	// LauncherMatch matches powershell.exe script-file runs.
	LauncherMatch = "-ExecutionPolicy Bypass -File"
)

// FakeHost simulates a Windows host behind WSL interop. The C: drive is mirrored
// under Root/c so that path conversion, Test-Path, downloads and installer runs
// act on real files in a temp directory.
type FakeHost struct {
	*FakeBridge

	// Root is the guest directory holding the mirrored drive.
	Root string
	// Env answers cmd.exe echo lookups; missing names echo back unexpanded.
	Env map[string]string
	// DownloadContent is written to the -OutFile target of Invoke-WebRequest.
	DownloadContent []byte
	// InstallerCreates is the host path created when the installer runs. Empty installs nothing.
	InstallerCreates string
	// FileVersion answers VersionInfo queries.
	FileVersion string
	// MonitorProcess is listed by Get-Process once the monitor launcher has run.
	// Empty lists nothing.
	MonitorProcess string

	monitorStarted bool
}

// NewFakeHost returns a FakeHost rooted in a fresh temp directory with the
// default profile and temp directories created.
// t is the active test.
func NewFakeHost(t *testing.T) *FakeHost {
	t.Helper()
	h := &FakeHost{
		FakeBridge: NewFakeBridge(),
		Root:       t.TempDir(),
		Env: map[string]string{
			"USERPROFILE": FakeUserProfile,
			"TEMP":        FakeTempDir,
		},
		DownloadContent:  []byte("MZ fake installer"),
		InstallerCreates: FakeDependencyPath,
		FileVersion:      "2.0.18.0",
		MonitorProcess:   FakeDependencyPath,
	}
	for _, dir := range []string{FakeUserProfile, FakeTempDir} {
		if err := os.MkdirAll(h.GuestPath(dir), 0o755); err != nil {
			t.Fatalf("create host dir: %v", err)
		}
	}

	h.On(LauncherMatch, h.launch)
	h.On("Get-Process", h.processes)
	h.On(hostbridge.CmdExe, h.echo)
	h.On(hostbridge.WSLPathExe, h.wslpath)
	h.OnStdout("Get-Command", "")
	h.On("Test-Path", h.testPath)
	h.On("Invoke-WebRequest", h.download)
	h.On("Get-FileHash", h.fileHash)
	h.On("Start-Process", h.runInstaller)
	h.On("VersionInfo", func(Call) (hostbridge.Result, error) {
		return hostbridge.Result{Stdout: h.FileVersion + "\r\n"}, nil
	})
	return h
}

// GuestPath maps a C: drive host path into the mirror. Other paths map to "".
func (h *FakeHost) GuestPath(hostPath string) string {
	if len(hostPath) < 2 || !strings.EqualFold(hostPath[:2], "C:") {
		return ""
	}
	rest := strings.TrimLeft(strings.ReplaceAll(hostPath[2:], `\`, "/"), "/")
	return filepath.Join(h.Root, "c", filepath.FromSlash(rest))
}

// HostPath maps a guest path to its host form: mirror paths become C: paths,
// everything else is addressed through the distro share.
func (h *FakeHost) HostPath(guestPath string) string {
	drive := filepath.Join(h.Root, "c")
	if rel, err := filepath.Rel(drive, guestPath); err == nil && !strings.HasPrefix(rel, "..") {
		if rel == "." {
			return `C:\`
		}
		return `C:\` + strings.ReplaceAll(filepath.ToSlash(rel), "/", `\`)
	}
	return `\\wsl.localhost\` + FakeDistro + strings.ReplaceAll(filepath.ToSlash(guestPath), "/", `\`)
}

// CreateHostFile writes data at hostPath inside the mirror.
// t is the active test; hostPath is a C: drive path; data is the file content.
func (h *FakeHost) CreateHostFile(t *testing.T, hostPath string, data []byte) {
	t.Helper()
	guest := h.GuestPath(hostPath)
	if guest == "" {
		t.Fatalf("host path %s is outside the mirrored drive", hostPath)
	}
	if err := os.MkdirAll(filepath.Dir(guest), 0o755); err != nil {
		t.Fatalf("create host dir: %v", err)
	}
	if err := os.WriteFile(guest, data, 0o644); err != nil {
		t.Fatalf("write host file: %v", err)
	}
}

func (h *FakeHost) launch(call Call) (hostbridge.Result, error) {
	if strings.HasSuffix(script(call), templates.MonitorScript) {
		h.monitorStarted = true
	}
	return hostbridge.Result{}, nil
}

func (h *FakeHost) processes(Call) (hostbridge.Result, error) {
	if !h.monitorStarted || h.MonitorProcess == "" {
		return hostbridge.Result{}, nil
	}
	return hostbridge.Result{Stdout: h.MonitorProcess + "\r\n"}, nil
}

func (h *FakeHost) echo(call Call) (hostbridge.Result, error) {
	arg := call.Args[len(call.Args)-1]
	name := strings.Trim(arg, "%")
	if value, ok := h.Env[name]; ok {
		return hostbridge.Result{Stdout: value + "\r\n"}, nil
	}
	return hostbridge.Result{Stdout: arg + "\r\n"}, nil
}

func (h *FakeHost) wslpath(call Call) (hostbridge.Result, error) {
	if len(call.Args) == 2 && call.Args[0] == "-w" {
		return hostbridge.Result{Stdout: h.HostPath(call.Args[1]) + "\n"}, nil
	}
	if len(call.Args) != 1 {
		return hostbridge.Result{ExitCode: 1, Stderr: "wslpath: invalid usage"}, nil
	}
	guest := h.GuestPath(call.Args[0])
	if guest == "" {
		return hostbridge.Result{ExitCode: 1, Stderr: "wslpath: " + call.Args[0] + ": Invalid argument"}, nil
	}
	return hostbridge.Result{Stdout: guest + "\n"}, nil
}

func (h *FakeHost) testPath(call Call) (hostbridge.Result, error) {
	guest := h.GuestPath(QuotedAfter(script(call), "Test-Path"))
	if guest == "" {
		return hostbridge.Result{Stdout: "False\r\n"}, nil
	}
	if _, err := os.Stat(guest); err != nil {
		return hostbridge.Result{Stdout: "False\r\n"}, nil
	}
	return hostbridge.Result{Stdout: "True\r\n"}, nil
}

func (h *FakeHost) download(call Call) (hostbridge.Result, error) {
	guest := h.GuestPath(QuotedAfter(script(call), "-OutFile"))
	if guest == "" {
		return hostbridge.Result{ExitCode: 1, Stderr: "Invoke-WebRequest: invalid OutFile"}, nil
	}
	if err := os.WriteFile(guest, h.DownloadContent, 0o644); err != nil {
		return hostbridge.Result{ExitCode: 1, Stderr: err.Error()}, nil
	}
	return hostbridge.Result{}, nil
}

func (h *FakeHost) fileHash(call Call) (hostbridge.Result, error) {
	guest := h.GuestPath(QuotedAfter(script(call), "-LiteralPath"))
	data, err := os.ReadFile(guest)
	if guest == "" || err != nil {
		return hostbridge.Result{ExitCode: 1, Stderr: "Get-FileHash: file not found"}, nil
	}
	sum := sha256.Sum256(data)
	return hostbridge.Result{Stdout: strings.ToUpper(hex.EncodeToString(sum[:])) + "\r\n"}, nil
}

func (h *FakeHost) runInstaller(call Call) (hostbridge.Result, error) {
	exe := h.GuestPath(QuotedAfter(script(call), "-FilePath"))
	if _, err := os.Stat(exe); exe == "" || err != nil {
		return hostbridge.Result{ExitCode: 1, Stderr: "Start-Process: installer not found"}, nil
	}
	if h.InstallerCreates == "" {
		return hostbridge.Result{}, nil
	}
	target := h.GuestPath(h.InstallerCreates)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return hostbridge.Result{ExitCode: 1, Stderr: err.Error()}, nil
	}
	if err := os.WriteFile(target, []byte("MZ autohotkey"), 0o755); err != nil {
		return hostbridge.Result{ExitCode: 1, Stderr: err.Error()}, nil
	}
	return hostbridge.Result{}, nil
}

func script(call Call) string {
	if len(call.Args) == 0 {
		return ""
	}
	return call.Args[len(call.Args)-1]
}

// QuotedAfter returns the first single-quoted PowerShell literal following
// keyword in script, with doubled quotes unescaped.
func QuotedAfter(script string, keyword string) string {
	idx := strings.Index(script, keyword)
	if idx < 0 {
		return ""
	}
	rest := script[idx+len(keyword):]
	start := strings.IndexByte(rest, '\'')
	if start < 0 {
		return ""
	}
	rest = rest[start+1:]
	var b strings.Builder
	for i := 0; i < len(rest); i++ {
		if rest[i] != '\'' {
			b.WriteByte(rest[i])
			continue
		}
		if i+1 < len(rest) && rest[i+1] == '\'' {
			b.WriteByte('\'')
			i++
			continue
		}
		break
	}
	return b.String()
}
