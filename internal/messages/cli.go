package messages

// CLI messages for user-facing commands.
const (
	// RootUse is the CLI command name.
	RootUse = "claude-clipboard"
	// RootShort is the short description for the root command.
	RootShort = "Smart clipboard paste for Claude Code"
	RootLong  = "Claude Clipboard bridges screenshots from the Windows clipboard into WSL so that\n" +
		"pasting into Claude Code inserts the saved image path.\n\n" +
		"Running without a command installs the clipboard integration."
	RootExample = "  claude-clipboard            # Install (default action)\n" +
		"  claude-clipboard install    # Explicitly install\n" +
		"  claude-clipboard help       # Show this help message"

	// InstallUse is the install command name.
	InstallUse   = "install"
	InstallShort = "Install the clipboard integration"

	ErrorLineFmt       = "Error: %v\n"
	DebugDetailHeader  = "Debug detail:"
	DebugFailedStepFmt = "  failed step: %s\n"
	DebugCauseFmt      = "  cause[%d]: %v\n"
	DebugCompletedFmt  = "  completed: %s (%s)\n"

	RunHelpHint = "Run 'claude-clipboard help' for usage information"
)
