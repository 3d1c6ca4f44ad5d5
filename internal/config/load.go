package config

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/fullstacktard/claude-clipboard/internal/messages"
)

// Environment overrides applied after the config file.
const (
	EnvInstallDir      = "CLAUDE_CLIPBOARD_INSTALL_DIR"
	EnvInstallerURL    = "CLAUDE_CLIPBOARD_INSTALLER_URL"
	EnvInstallerSHA256 = "CLAUDE_CLIPBOARD_INSTALLER_SHA256"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		InstallDir:  DefaultInstallDir(),
		HostDirName: AppDirName,
		Dependency: DependencyConfig{
			InstallerURL:   DefaultInstallerURL,
			SilentFlag:     DefaultSilentFlag,
			SettleDelay:    Duration(DefaultSettleDelay),
			VerifyAttempts: DefaultVerifyAttempts,
			VerifyInterval: Duration(DefaultVerifyInterval),
		},
		Monitor: MonitorConfig{
			VerifyAttempts: DefaultMonitorAttempts,
			VerifyInterval: Duration(DefaultMonitorInterval),
		},
		Timeouts: TimeoutConfig{
			Command:   Duration(DefaultCommandTimeout),
			Installer: Duration(DefaultInstallerTimeout),
		},
	}
}

// Load resolves the configuration: defaults, then the TOML file at path when it
// exists, then environment overrides read through getenv. A missing file is not
// an error.
func Load(path string, getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decodeInto(&cfg, data); err != nil {
				return Config{}, fmt.Errorf(messages.ConfigInvalidFmt, path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf(messages.ConfigReadFailedFmt, path, err)
		}
	}

	applyEnv(&cfg, getenv)
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decodeInto overlays TOML data on cfg, rejecting unknown keys so typos surface.
func decodeInto(cfg *Config, data []byte) error {
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(cfg)
}

func applyEnv(cfg *Config, getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvInstallDir)); v != "" {
		cfg.InstallDir = v
	}
	if v := strings.TrimSpace(getenv(EnvInstallerURL)); v != "" {
		cfg.Dependency.InstallerURL = v
	}
	if v := strings.TrimSpace(getenv(EnvInstallerSHA256)); v != "" {
		cfg.Dependency.InstallerSHA256 = v
	}
}

// normalize expands paths and validates values that would otherwise fail late.
func (c *Config) normalize() error {
	expanded, err := homedir.Expand(strings.TrimSpace(c.InstallDir))
	if err != nil {
		return fmt.Errorf(messages.ConfigExpandPathFailedFmt, c.InstallDir, err)
	}
	if expanded == "" {
		expanded = DefaultInstallDir()
	}
	c.InstallDir = expanded

	if strings.TrimSpace(c.HostDirName) == "" {
		c.HostDirName = AppDirName
	}
	if strings.TrimSpace(c.Dependency.SilentFlag) == "" {
		c.Dependency.SilentFlag = DefaultSilentFlag
	}
	if c.Dependency.VerifyAttempts < 1 {
		return errors.New(messages.ConfigAttemptsInvalid)
	}
	if c.Monitor.VerifyAttempts < 1 {
		return errors.New(messages.ConfigMonitorAttemptsInvalid)
	}

	sum := strings.ToLower(strings.TrimSpace(c.Dependency.InstallerSHA256))
	if sum != "" {
		if decoded, err := hex.DecodeString(sum); err != nil || len(decoded) != 32 {
			return fmt.Errorf(messages.ConfigInvalidChecksumFmt, c.Dependency.InstallerSHA256)
		}
	}
	c.Dependency.InstallerSHA256 = sum
	return nil
}
