package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// DefaultInstallDir returns the guest install directory under XDG_DATA_HOME
// (~/.local/share/claude-clipboard when unset).
func DefaultInstallDir() string {
	return filepath.Join(xdg.DataHome, AppDirName)
}

// DefaultConfigPath returns the optional config file location under XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppDirName, "config.toml")
}
