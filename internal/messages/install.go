package messages

// Installer messages.
const (
	InstallHeaderTitle    = "Claude Clipboard Installer"
	InstallHeaderSubtitle = "Smart clipboard paste for Claude Code"
	InstallStepsSection   = "Installation Steps"

	// NotWSLTitle is shown when the environment probe fails.
	NotWSLTitle = "Not Running in WSL"
	NotWSLBody  = "This tool is designed for Windows Subsystem for Linux (WSL).\n\n" +
		"It requires WSL to bridge clipboard functionality between\n" +
		"Windows and Linux."
	NotWSLError = "not running in WSL: /proc/version does not identify a Microsoft kernel"

	InstallSystemRequired           = "install system is required"
	InstallTemplateDirRequired      = "template directory is required"
	InstallDestDirRequired          = "destination directory is required"
	InstallReadTemplateDirFailedFmt = "failed to read template directory %s: %w"
	InstallReadTemplateFailedFmt    = "failed to read template %s: %w"
	InstallCreateDirFailedFmt       = "failed to create directory %s: %w"
	InstallWriteFailedFmt           = "failed to write %s: %w"
	InstallReadFailedFmt            = "failed to read %s: %w"

	TargetProfileFailedFmt      = "could not determine Windows user profile path: %w"
	TargetGuestProfileFailedFmt = "could not translate Windows user profile %s to a WSL path: %w"
	TargetGuestDirRequired      = "guest install directory is required"

	// Step progress labels.
	StepProbeDone           = "Running in WSL"
	StepTargetDoneFmt       = "Installation directories resolved (%s)"
	StepGuestDoneFmt        = "Copied clipboard scripts to %s"
	StepHostDoneFmt         = "AutoHotkey scripts copied to %s"
	StepDependencyFoundFmt  = "AutoHotkey v2 detected at %s"
	StepDependencyFailedFmt = "AutoHotkey v2 not found - manual installation required (%v)"
	StepMonitorDone         = "Clipboard monitor started"
	StepMonitorFailedFmt    = "Could not start clipboard monitor: %v (start it manually: cd \"%s\"; .\\start-smart-paste.ps1)"
	StepAutoStartDone       = "Auto-start configured"
	StepAutoStartFailedFmt  = "Could not configure auto-start: %v (optional, as Administrator: cd \"%s\"; .\\start-paste-shortcut.ps1)"
	StepSkippedNoDependency = "Skipped: AutoHotkey v2 is not installed"

	// Dependency resolver errors.
	DependencyTempDirFailedFmt    = "resolve Windows temp directory: %w"
	DependencyDownloadFailedFmt   = "download AutoHotkey installer: %w"
	DependencyChecksumFailedFmt   = "verify AutoHotkey installer checksum: %w"
	DependencyChecksumMismatchFmt = "installer checksum mismatch: expected %s, got %s"
	DependencyRunFailedFmt        = "run AutoHotkey installer: %w"
	DependencyNotVerified         = "AutoHotkey v2 still not detected after installation"
	DependencyVersionFailedFmt    = "read AutoHotkey file version: %w"

	// Launcher errors.
	LauncherHostPathFailedFmt     = "translate %s to a Windows path: %w"
	LauncherScriptFailedFmt       = "run %s: %w"
	LauncherProcessQueryFailedFmt = "query clipboard monitor process: %w"
	LauncherMonitorNotRunning     = "clipboard monitor process is not running after launch"

	// Path bridge errors.
	PathBridgeEmptyOutputFmt   = "%s returned no output"
	PathBridgeUnsetVariableFmt = "Windows environment variable %s is not set"
	PathBridgeConvertFailedFmt = "convert path %s: %w"
	PathBridgeLookupFailedFmt  = "look up %%%s%%: %w"
	PathBridgeEmptyPath        = "path is required"

	// Host bridge errors.
	HostBridgeStartFailedFmt = "start %s: %w"
	HostBridgeExitFmt        = "%s exited with status %d"
	HostBridgeExitStderrFmt  = "%s exited with status %d: %s"
	HostBridgeTimeoutFmt     = "%s timed out after %s"
	HostBridgeInvalidBoolFmt = "expected True or False, got %q"

	// Config errors.
	ConfigReadFailedFmt          = "failed to read config %s: %w"
	ConfigInvalidFmt             = "invalid config %s: %w"
	ConfigInvalidDurationFmt     = "invalid duration %q for %s: %w"
	ConfigExpandPathFailedFmt    = "expand path %s: %w"
	ConfigInvalidChecksumFmt     = "invalid installer_sha256 %q: expected 64 hex characters"
	ConfigAttemptsInvalid        = "dependency.verify_attempts must be at least 1"
	ConfigMonitorAttemptsInvalid = "monitor.verify_attempts must be at least 1"
)
