// Package templates embeds the scripts copied into the guest and the host.
package templates

import (
	"embed"
	"io/fs"
)

// Template directories inside the embedded filesystem.
const (
	ClipboardDir  = "clipboard"
	AutoHotkeyDir = "autohotkey"
)

// Well-known script names.
const (
	// PasteImageScript is the guest script the host hotkey invokes.
	PasteImageScript = "claude-paste-image"
	// MonitorScript starts the AutoHotkey clipboard monitor and carries the guest script path.
	MonitorScript = "start-smart-paste.ps1"
	// AutoStartScript registers the monitor to start at Windows login.
	AutoStartScript = "start-paste-shortcut.ps1"
)

//go:embed clipboard autohotkey
var content embed.FS

// FS returns the embedded template filesystem.
func FS() fs.FS {
	return content
}
