package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fullstacktard/claude-clipboard/internal/config"
	"github.com/fullstacktard/claude-clipboard/internal/hostbridge"
	"github.com/fullstacktard/claude-clipboard/internal/install"
	"github.com/fullstacktard/claude-clipboard/internal/logging"
	"github.com/fullstacktard/claude-clipboard/internal/messages"
	"github.com/fullstacktard/claude-clipboard/internal/orchestrator"
	"github.com/fullstacktard/claude-clipboard/internal/probe"
	"github.com/fullstacktard/claude-clipboard/internal/report"
	"github.com/fullstacktard/claude-clipboard/internal/terminal"
)

var (
	getenv      = os.Getenv
	isTerminal  = terminal.IsTerminalWriter
	configPath  = config.DefaultConfigPath
	logFilePath = logging.LogFilePath
)

// Host and filesystem collaborators, swapped in tests.
var (
	probeSystem  probe.System = probe.RealSystem{}
	installFiles install.System
)

var newHostBridge = func(timeout time.Duration) hostbridge.Bridge {
	return hostbridge.NewExecBridge(timeout, logging.GetLogger("hostbridge"))
}

func newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.InstallUse,
		Short: messages.InstallShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd)
		},
	}
}

// runInstall runs the installation pipeline and prints progress and the final summary.
func runInstall(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	printer := report.Printer{Out: out, Styled: isTerminal(out)}

	// The probe runs before logging so a non-WSL run creates no files at all.
	if !probe.IsTargetEnvironment(probeSystem) {
		printer.NotWSL()
		return &SilentExitError{Code: 1}
	}

	closer, err := logging.Setup(logging.Options{
		Debug:   logging.DebugEnabled(getenv),
		Console: cmd.ErrOrStderr(),
		LogFile: logFilePath(),
	})
	if err != nil {
		// Setup already warned; the install continues without a log file.
		logger := logging.GetLogger("cli")
		logger.Debug().Err(err).Msg("install log unavailable")
	}
	defer func() { _ = closer.Close() }()

	cfg, err := config.Load(configPath(), getenv)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printer.Header()
	o := orchestrator.New(cfg, orchestrator.Deps{
		Host:     newHostBridge(cfg.Timeouts.Command.Std()),
		LongHost: newHostBridge(cfg.Timeouts.Installer.Std()),
		Probe:    probeSystem,
		Files:    installFiles,
		Observer: printer.Step,
	})
	outcome, err := o.Run(ctx)
	if err != nil {
		if errors.Is(err, orchestrator.ErrNotWSL) {
			printer.NotWSL()
			return &SilentExitError{Code: 1}
		}
		return err
	}

	printer.Summary(outcome.Summary, report.Info{
		GuestInstallDir: outcome.Target.GuestInstallDir,
		HostInstallDir:  outcome.Target.HostInstallDirWindows,
	})
	return nil
}
