// Package probe decides whether the installer is running inside WSL.
package probe

import (
	"os"
	"strings"
)

// VersionFile is the kernel identification file read by the probe.
const VersionFile = "/proc/version"

// kernelMarker identifies a Microsoft-built WSL kernel.
const kernelMarker = "microsoft"

// System abstracts the file read needed by the probe.
type System interface {
	ReadFile(name string) ([]byte, error)
}

// RealSystem implements System using the OS filesystem.
type RealSystem struct{}

// ReadFile reads the named file and returns the contents.
func (RealSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// IsTargetEnvironment reports whether the kernel identifies itself as a WSL kernel.
// A missing or unreadable version file is treated as "not WSL".
func IsTargetEnvironment(sys System) bool {
	if sys == nil {
		sys = RealSystem{}
	}
	data, err := sys.ReadFile(VersionFile)
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(data)), kernelMarker)
}
