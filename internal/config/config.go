// Package config resolves installer settings from defaults, an optional TOML
// file, and environment overrides.
package config

import (
	"fmt"
	"time"

	"github.com/fullstacktard/claude-clipboard/internal/messages"
)

// AppDirName is the directory name used for the guest install, config, and state directories.
const AppDirName = "claude-clipboard"

// Installer defaults for the AutoHotkey v2 runtime.
const (
	DefaultInstallerURL   = "https://github.com/AutoHotkey/AutoHotkey/releases/download/v2.0.18/AutoHotkey_2.0.18_setup.exe"
	DefaultInstallerName  = "AutoHotkey_v2_setup.exe"
	DefaultSilentFlag     = "/S"
	DefaultSettleDelay    = 5 * time.Second
	DefaultVerifyAttempts = 3
	DefaultVerifyInterval = 2 * time.Second
)

// Monitor verification defaults.
const (
	DefaultMonitorAttempts = 3
	DefaultMonitorInterval = time.Second
)

// Host command timeouts.
const (
	DefaultCommandTimeout   = 2 * time.Minute
	DefaultInstallerTimeout = 5 * time.Minute
)

// Config holds the resolved installer settings.
type Config struct {
	// InstallDir is the guest directory receiving the clipboard scripts.
	InstallDir string `toml:"install_dir"`
	// HostDirName is the folder created under %USERPROFILE%\AppData\Local.
	HostDirName string           `toml:"host_dir_name"`
	Dependency  DependencyConfig `toml:"dependency"`
	Monitor     MonitorConfig    `toml:"monitor"`
	Timeouts    TimeoutConfig    `toml:"timeouts"`
}

// DependencyConfig controls AutoHotkey detection and remediation.
type DependencyConfig struct {
	InstallerURL string `toml:"installer_url"`
	// InstallerSHA256 enables checksum verification of the downloaded installer when set.
	InstallerSHA256 string   `toml:"installer_sha256"`
	SilentFlag      string   `toml:"silent_flag"`
	SettleDelay     Duration `toml:"settle_delay"`
	VerifyAttempts  int      `toml:"verify_attempts"`
	VerifyInterval  Duration `toml:"verify_interval"`
}

// MonitorConfig controls how long the installer waits for the clipboard
// monitor process to appear after its launcher script exits.
type MonitorConfig struct {
	VerifyAttempts int      `toml:"verify_attempts"`
	VerifyInterval Duration `toml:"verify_interval"`
}

// TimeoutConfig bounds host command execution.
type TimeoutConfig struct {
	Command   Duration `toml:"command"`
	Installer Duration `toml:"installer"`
}

// Duration is a time.Duration decoded from a Go duration string such as "90s".
type Duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf(messages.ConfigInvalidDurationFmt, string(text), "duration", err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText renders the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the duration as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
