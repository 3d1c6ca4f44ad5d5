package dependency

import (
	"github.com/fullstacktard/claude-clipboard/internal/hostbridge"
)

// CanonicalPaths lists the install locations probed for AutoHotkey, in order.
var CanonicalPaths = []string{
	`C:\Program Files\AutoHotkey\v2\AutoHotkey.exe`,
	`C:\Program Files\AutoHotkey\AutoHotkey.exe`,
	`C:\Program Files (x86)\AutoHotkey\v2\AutoHotkey.exe`,
	`C:\Program Files (x86)\AutoHotkey\AutoHotkey.exe`,
}

// commandLookupScript resolves autohotkey through the host PATH.
const commandLookupScript = "Get-Command autohotkey -ErrorAction SilentlyContinue | Select-Object -ExpandProperty Source"

// pathMarker must appear in a PATH lookup result for it to count as AutoHotkey.
const pathMarker = "AutoHotkey"

func testPathScript(path string) string {
	return "Test-Path -LiteralPath " + hostbridge.QuotePS(path)
}

func downloadScript(url string, outFile string) string {
	return "[Net.ServicePointManager]::SecurityProtocol = [Net.SecurityProtocolType]::Tls12; " +
		"Invoke-WebRequest -Uri " + hostbridge.QuotePS(url) +
		" -OutFile " + hostbridge.QuotePS(outFile) + " -UseBasicParsing"
}

func fileHashScript(path string) string {
	return "(Get-FileHash -Algorithm SHA256 -LiteralPath " + hostbridge.QuotePS(path) + ").Hash"
}

func runInstallerScript(exe string, silentFlag string) string {
	return "Start-Process -FilePath " + hostbridge.QuotePS(exe) +
		" -ArgumentList " + hostbridge.QuotePS(silentFlag) + " -Wait"
}

func fileVersionScript(path string) string {
	return "(Get-Item -LiteralPath " + hostbridge.QuotePS(path) + ").VersionInfo.FileVersion"
}
