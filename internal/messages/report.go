package messages

// Outcome report messages.
const (
	ReportCompleteSection   = "Installation Complete!"
	ReportPartialSection    = "Installation Finished With Warnings"
	ReportSuccessTitle      = "Setup Complete"
	ReportPartialTitle      = "Setup Needs Attention"
	ReportSuccessIntro      = "Claude Clipboard has been installed successfully!"
	ReportPartialIntro      = "Claude Clipboard files are installed, but some steps need manual attention."
	ReportConfiguredHeader  = "What's configured:"
	ReportManualHeader      = "Before You Can Use It:"
	ReportStatusLineFmt     = "  %s %s\n"
	ReportManualLineFmt     = "%d. %s\n"
	ReportAutoStartMissing  = "Auto-start on Windows login: not configured"
	ReportAutoStartOK       = "Auto-start on Windows login: configured"
	ReportDependencyOK      = "AutoHotkey v2: installed"
	ReportDependencyMissing = "AutoHotkey v2: not installed"
	ReportMonitorOK         = "Clipboard monitor: running"
	ReportMonitorMissing    = "Clipboard monitor: not running"

	ReportOKLabel   = "[OK]"
	ReportWarnLabel = "[WARN]"
	ReportSkipLabel = "[SKIP]"
	ReportFailLabel = "[FAIL]"

	// ManualInstallDependency is the manual remediation for a missing AutoHotkey runtime.
	ManualInstallDependency = "Install AutoHotkey v2 (if not already installed):\n   Download from: " + DependencyDownloadPage
	// ManualStartMonitorFmt is the manual remediation for a monitor that did not start.
	ManualStartMonitorFmt = "Start the clipboard monitor (in Windows PowerShell):\n   cd \"%s\"\n   .\\start-smart-paste.ps1"
	// ManualAutoStartFmt is shown as an optional hint; it is not a manual step.
	ManualAutoStartFmt = "Optional - Auto-start on Windows login (PowerShell as Administrator):\n   cd \"%s\"\n   .\\start-paste-shortcut.ps1"

	DependencyDownloadPage = "https://www.autohotkey.com/"
	TroubleshootingURL     = "https://github.com/fullstacktard/claude-clipboard#readme"

	ReportUsageHeader = "How to Use:"
	ReportUsageBody   = "1. Take a screenshot (Win+Shift+S)\n" +
		"2. Open Claude Code in Windows Terminal\n" +
		"3. Press Ctrl+V\n" +
		"4. Screenshot path appears automatically!"
	ReportFilesHeader     = "Installed Files:"
	ReportFilesGuestFmt   = "  WSL:     %s/\n"
	ReportFilesHostFmt    = "  Windows: %s\\\n"
	ReportTroubleshootFmt = "For troubleshooting, see:\n%s\n"
)
